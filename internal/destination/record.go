package destination

// Record is the flat persisted form of a Destination. Its JSON shape is the
// on-disk itinerary file format; the YAML keys match for exports.
type Record struct {
	City       string   `json:"city" yaml:"city"`
	Country    string   `json:"country" yaml:"country"`
	StartDate  string   `json:"start_date" yaml:"start_date"`
	EndDate    string   `json:"end_date" yaml:"end_date"`
	Budget     float64  `json:"budget" yaml:"budget"`
	Activities []string `json:"activities" yaml:"activities"`
}

// Record returns the persisted form of d.
func (d *Destination) Record() Record {
	return Record{
		City:       d.City,
		Country:    d.Country,
		StartDate:  d.StartDate,
		EndDate:    d.EndDate,
		Budget:     d.Budget,
		Activities: copyStrings(d.Activities),
	}
}

// FromRecord rebuilds a Destination from its persisted form.
func FromRecord(r Record) *Destination {
	return New(r.City, r.Country, r.StartDate, r.EndDate, r.Budget, r.Activities)
}
