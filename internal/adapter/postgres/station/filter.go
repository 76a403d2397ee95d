package station

// Filter defines parameters for searching gas stations.
type Filter struct {
	// UF filters by exact two-letter state code (case-insensitive).
	UF *string

	// Municipio performs ILIKE '%...%' on the joined location.
	Municipio *string

	// Bandeira performs ILIKE '%...%' on the station brand.
	Bandeira *string

	// Produto restricts to stations with at least one price record for a
	// product whose canonical name matches ILIKE '%...%'.
	Produto *string

	// Limit is the maximum number of stations to return. Default: 50, max: 200.
	Limit int

	// Offset is the number of stations to skip.
	Offset int
}

const (
	defaultLimit = 50
	maxLimit     = 200
)

// normalize applies defaults and clamps values.
func (f *Filter) normalize() {
	if f.Limit <= 0 {
		f.Limit = defaultLimit
	}
	if f.Limit > maxLimit {
		f.Limit = maxLimit
	}
	if f.Offset < 0 {
		f.Offset = 0
	}
}
