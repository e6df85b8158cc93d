package domain

// DefaultTagFacetLimit caps the tag histogram.
const DefaultTagFacetLimit = 50

// CategoryOption is a browsable category. ParentID is nil for top-level
// entries.
type CategoryOption struct {
	ID       string
	Name     string
	ParentID *string
}

// TagCount is one bucket of the tag histogram.
type TagCount struct {
	ID    string
	Name  string
	Type  string
	Count int64
}

// FilterMetaParams scopes the tag histogram. The histogram is geo-scoped only
// when Lat, Lng and RadiusKm are all present.
type FilterMetaParams struct {
	Lat      *float64
	Lng      *float64
	RadiusKm *float64
	TagType  string
}

// GeoScope returns the origin and radius when the request is geo-scoped.
func (p FilterMetaParams) GeoScope() (Point, float64, bool) {
	if p.Lat == nil || p.Lng == nil || p.RadiusKm == nil {
		return Point{}, 0, false
	}

	return Point{Lat: *p.Lat, Lng: *p.Lng}, *p.RadiusKm, true
}

// FilterMeta is everything a client needs to build its filter UI.
type FilterMeta struct {
	Categories  []CategoryOption
	Tags        []TagCount
	SortOptions []SortKey
	TimeSlots   []string
}

var curatedCategories = []CategoryOption{
	{ID: "cafe", Name: "카페"},
	{ID: "bakery", Name: "베이커리"},
	{ID: "brunch", Name: "브런치"},
	{ID: "salad", Name: "샐러드"},
}

var sortOptions = []SortKey{SortDistance, SortPopularity, SortDiscount, SortRating, SortRecent}

var timeSlots = []string{"05:00-06:00", "06:00-07:00", "07:00-08:00", "08:00-09:00"}

// NewFilterMeta combines the static options with a tag histogram.
func NewFilterMeta(tags []TagCount) *FilterMeta {
	if tags == nil {
		tags = []TagCount{}
	}

	return &FilterMeta{
		Categories:  append([]CategoryOption(nil), curatedCategories...),
		Tags:        tags,
		SortOptions: append([]SortKey(nil), sortOptions...),
		TimeSlots:   append([]string(nil), timeSlots...),
	}
}
