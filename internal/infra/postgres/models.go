package postgres

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"store-search-service/internal/domain"
)

// StoreModel is the GORM model for the stores table.
type StoreModel struct {
	ID               string  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	OwnerID          string  `gorm:"type:varchar(64)"`
	CategoryID       *string `gorm:"type:varchar(50);index"`
	Name             string  `gorm:"type:varchar(200);not null"`
	AIRecommendation string  `gorm:"column:ai_recommendation;type:text"`
	Phone            string  `gorm:"type:varchar(30)"`
	Address          string  `gorm:"type:varchar(300)"`

	Latitude  *float64 `gorm:"type:double precision"`
	Longitude *float64 `gorm:"type:double precision"`

	KakaoPlaceID string `gorm:"type:varchar(30)"`
	NaverPlaceID string `gorm:"type:varchar(30)"`
	RepImageURL  string `gorm:"type:varchar(500)"`

	RatingAvg      decimal.NullDecimal `gorm:"type:decimal(3,2)"`
	RatingCount    int                 `gorm:"not null;default:0"`
	BusinessStatus string              `gorm:"type:varchar(20);not null;default:'OPEN'"`
	IsActive       bool                `gorm:"not null"`

	CreatedAt time.Time `gorm:"autoCreateTime"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`
}

// TableName returns the table name for StoreModel.
func (StoreModel) TableName() string {
	return "stores"
}

// BeforeSave rejects rows that break store invariants.
func (m *StoreModel) BeforeSave(*gorm.DB) error {
	return m.ToDomain().Validate()
}

// ToDomain converts StoreModel to domain.Store.
func (m *StoreModel) ToDomain() *domain.Store {
	s := &domain.Store{
		ID:               m.ID,
		OwnerID:          m.OwnerID,
		Name:             m.Name,
		AIRecommendation: m.AIRecommendation,
		Phone:            m.Phone,
		Address:          m.Address,
		Latitude:         m.Latitude,
		Longitude:        m.Longitude,
		KakaoPlaceID:     m.KakaoPlaceID,
		NaverPlaceID:     m.NaverPlaceID,
		RepImageURL:      m.RepImageURL,
		RatingAvg:        decimalPtr(m.RatingAvg),
		RatingCount:      m.RatingCount,
		BusinessStatus:   domain.BusinessStatus(m.BusinessStatus),
		IsActive:         m.IsActive,
		CreatedAt:        m.CreatedAt,
		UpdatedAt:        m.UpdatedAt,
	}
	if m.CategoryID != nil {
		s.CategoryID = *m.CategoryID
	}

	return s
}

// StoreFromDomain creates a StoreModel from domain.Store.
func StoreFromDomain(s *domain.Store) *StoreModel {
	m := &StoreModel{
		ID:               s.ID,
		OwnerID:          s.OwnerID,
		Name:             s.Name,
		AIRecommendation: s.AIRecommendation,
		Phone:            s.Phone,
		Address:          s.Address,
		Latitude:         s.Latitude,
		Longitude:        s.Longitude,
		KakaoPlaceID:     s.KakaoPlaceID,
		NaverPlaceID:     s.NaverPlaceID,
		RepImageURL:      s.RepImageURL,
		RatingCount:      s.RatingCount,
		BusinessStatus:   string(s.BusinessStatus),
		IsActive:         s.IsActive,
		CreatedAt:        s.CreatedAt,
		UpdatedAt:        s.UpdatedAt,
	}
	if s.CategoryID != "" {
		id := s.CategoryID
		m.CategoryID = &id
	}
	if s.RatingAvg != nil {
		m.RatingAvg = decimal.NewNullDecimal(decimal.NewFromFloat(*s.RatingAvg))
	}
	if m.BusinessStatus == "" {
		m.BusinessStatus = string(domain.BusinessStatusOpen)
	}

	return m
}

// CategoryModel is the GORM model for the categories table.
type CategoryModel struct {
	ID       string  `gorm:"type:varchar(50);primaryKey"`
	Name     string  `gorm:"type:varchar(100);not null"`
	ParentID *string `gorm:"type:varchar(50)"`
}

// TableName returns the table name for CategoryModel.
func (CategoryModel) TableName() string {
	return "categories"
}

// TagModel is the GORM model for the tags table.
type TagModel struct {
	ID   string `gorm:"type:varchar(50);primaryKey"`
	Name string `gorm:"type:varchar(100);not null"`
	Type string `gorm:"type:varchar(50)"`
}

// TableName returns the table name for TagModel.
func (TagModel) TableName() string {
	return "tags"
}

// StoreTagModel is the store/tag association.
type StoreTagModel struct {
	StoreID string `gorm:"type:uuid;primaryKey"`
	TagID   string `gorm:"type:varchar(50);primaryKey"`
}

// TableName returns the table name for StoreTagModel.
func (StoreTagModel) TableName() string {
	return "store_tags"
}

// MenuItemModel is the GORM model for the menu_items table.
type MenuItemModel struct {
	ID        string          `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	StoreID   string          `gorm:"type:uuid;not null;index"`
	Name      string          `gorm:"type:varchar(200);not null"`
	Price     decimal.Decimal `gorm:"type:decimal(10,0);not null;default:0"`
	SortOrder int             `gorm:"not null;default:1"`
	CreatedAt time.Time       `gorm:"autoCreateTime"`
}

// TableName returns the table name for MenuItemModel.
func (MenuItemModel) TableName() string {
	return "menu_items"
}

// BeforeSave rejects negative prices and sort orders below one.
func (m *MenuItemModel) BeforeSave(*gorm.DB) error {
	if m.Price.IsNegative() {
		return fmt.Errorf("%w: menu price must not be negative", domain.ErrInvalidArgument)
	}
	if m.SortOrder < 1 {
		return fmt.Errorf("%w: menu sort order must be at least 1", domain.ErrInvalidArgument)
	}

	return nil
}

// ToDomain converts MenuItemModel to domain.MenuItem.
func (m *MenuItemModel) ToDomain() domain.MenuItem {
	return domain.MenuItem{
		ID:        m.ID,
		StoreID:   m.StoreID,
		Name:      m.Name,
		Price:     m.Price.IntPart(),
		SortOrder: m.SortOrder,
		CreatedAt: m.CreatedAt,
	}
}

// OpenHourModel is the GORM model for the store_open_hours table.
// Times are stored as zero-padded "HH:MM" strings so they compare
// lexicographically in SQL.
type OpenHourModel struct {
	ID         uint    `gorm:"primaryKey"`
	StoreID    string  `gorm:"type:uuid;not null;uniqueIndex:uq_open_hours_store_day"`
	DayOfWeek  int     `gorm:"not null;uniqueIndex:uq_open_hours_store_day"`
	OpenTime   string  `gorm:"type:varchar(5);not null;default:'00:00'"`
	CloseTime  string  `gorm:"type:varchar(5);not null;default:'00:00'"`
	BreakStart *string `gorm:"type:varchar(5)"`
	BreakEnd   *string `gorm:"type:varchar(5)"`
	Is24h      bool    `gorm:"column:is_24h;not null"`
}

// TableName returns the table name for OpenHourModel.
func (OpenHourModel) TableName() string {
	return "store_open_hours"
}

// ToDomain converts OpenHourModel to domain.OpenHour. A break is kept only
// when both bounds are present.
func (m *OpenHourModel) ToDomain() (domain.OpenHour, error) {
	open, err := domain.ParseClockTime(m.OpenTime)
	if err != nil {
		return domain.OpenHour{}, fmt.Errorf("store %s day %d open_time: %w", m.StoreID, m.DayOfWeek, err)
	}
	closeAt, err := domain.ParseClockTime(m.CloseTime)
	if err != nil {
		return domain.OpenHour{}, fmt.Errorf("store %s day %d close_time: %w", m.StoreID, m.DayOfWeek, err)
	}

	h := domain.OpenHour{
		StoreID:   m.StoreID,
		DayOfWeek: time.Weekday(m.DayOfWeek),
		Open:      open,
		Close:     closeAt,
		Is24h:     m.Is24h,
	}

	if m.BreakStart != nil && m.BreakEnd != nil {
		start, err := domain.ParseClockTime(*m.BreakStart)
		if err != nil {
			return domain.OpenHour{}, fmt.Errorf("store %s day %d break_start: %w", m.StoreID, m.DayOfWeek, err)
		}
		end, err := domain.ParseClockTime(*m.BreakEnd)
		if err != nil {
			return domain.OpenHour{}, fmt.Errorf("store %s day %d break_end: %w", m.StoreID, m.DayOfWeek, err)
		}
		h.Break = &domain.BreakWindow{Start: start, End: end}
	}

	return h, nil
}

// OpenHourFromDomain creates an OpenHourModel from domain.OpenHour.
func OpenHourFromDomain(h domain.OpenHour) *OpenHourModel {
	m := &OpenHourModel{
		StoreID:   h.StoreID,
		DayOfWeek: int(h.DayOfWeek),
		OpenTime:  h.Open.String(),
		CloseTime: h.Close.String(),
		Is24h:     h.Is24h,
	}
	if h.Break != nil {
		start, end := h.Break.Start.String(), h.Break.End.String()
		m.BreakStart, m.BreakEnd = &start, &end
	}

	return m
}

// DealModel is the GORM model for the earlybird_deals table.
type DealModel struct {
	ID            string     `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	StoreID       string     `gorm:"type:uuid;not null;index"`
	Title         string     `gorm:"type:varchar(200);not null"`
	Description   string     `gorm:"type:text"`
	DiscountValue string     `gorm:"type:varchar(50);not null"`
	DiscountType  string     `gorm:"type:varchar(10);not null;default:'PERCENT'"`
	TimeWindow    string     `gorm:"type:varchar(20)"`
	DisplayText   string     `gorm:"type:varchar(200)"`
	Status        string     `gorm:"type:varchar(10);not null;default:'ACTIVE'"`
	DealType      string     `gorm:"type:varchar(20);not null;default:'EARLYBIRD'"`
	ValidFrom     *time.Time `gorm:"type:timestamptz"`
	ValidUntil    *time.Time `gorm:"type:timestamptz"`
	IsActive      bool       `gorm:"not null"`
	CreatedAt     time.Time  `gorm:"autoCreateTime"`
	UpdatedAt     time.Time  `gorm:"autoUpdateTime"`
}

// TableName returns the table name for DealModel.
func (DealModel) TableName() string {
	return "earlybird_deals"
}

// BeforeSave rejects inverted validity windows.
func (m *DealModel) BeforeSave(*gorm.DB) error {
	d := m.ToDomain()
	return d.Validate()
}

// ToDomain converts DealModel to domain.EarlybirdDeal.
func (m *DealModel) ToDomain() domain.EarlybirdDeal {
	return domain.EarlybirdDeal{
		ID:            m.ID,
		StoreID:       m.StoreID,
		Title:         m.Title,
		Description:   m.Description,
		DiscountValue: m.DiscountValue,
		DiscountType:  domain.DiscountType(m.DiscountType),
		TimeWindow:    m.TimeWindow,
		DisplayText:   m.DisplayText,
		Status:        domain.DealStatus(m.Status),
		DealType:      domain.DealType(m.DealType),
		ValidFrom:     m.ValidFrom,
		ValidUntil:    m.ValidUntil,
		IsActive:      m.IsActive,
		CreatedAt:     m.CreatedAt,
	}
}

// DealFromDomain creates a DealModel from domain.EarlybirdDeal.
func DealFromDomain(d domain.EarlybirdDeal) *DealModel {
	return &DealModel{
		ID:            d.ID,
		StoreID:       d.StoreID,
		Title:         d.Title,
		Description:   d.Description,
		DiscountValue: d.DiscountValue,
		DiscountType:  string(d.DiscountType),
		TimeWindow:    d.TimeWindow,
		DisplayText:   d.DisplayText,
		Status:        string(d.Status),
		DealType:      string(d.DealType),
		ValidFrom:     d.ValidFrom,
		ValidUntil:    d.ValidUntil,
		IsActive:      d.IsActive,
		CreatedAt:     d.CreatedAt,
	}
}

// FavoriteModel is the GORM model for the user_favorites table.
type FavoriteModel struct {
	ID        string    `gorm:"type:uuid;primaryKey"`
	UserID    string    `gorm:"type:varchar(64);not null;uniqueIndex:uq_user_favorites_user_store"`
	StoreID   string    `gorm:"type:uuid;not null;uniqueIndex:uq_user_favorites_user_store;index"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
}

// TableName returns the table name for FavoriteModel.
func (FavoriteModel) TableName() string {
	return "user_favorites"
}

func decimalPtr(d decimal.NullDecimal) *float64 {
	if !d.Valid {
		return nil
	}
	f := d.Decimal.InexactFloat64()

	return &f
}
