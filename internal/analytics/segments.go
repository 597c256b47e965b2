package analytics

// DefaultSegment is assigned to companies missing from the segment table.
const DefaultSegment = "Industrial Generalista"

// Segments maps company ids to a client segment.
type Segments struct {
	ByCompany map[string]string
	Default   string
}

// DefaultSegments returns the built-in company segment table.
func DefaultSegments() Segments {
	return Segments{
		ByCompany: map[string]string{
			"empresa-01": "Metalurgia & Siderurgia",
			"empresa-02": "Ensaios Laboratoriais",
			"empresa-03": "Automação Industrial",
			"empresa-04": "Montagens e Infraestrutura",
		},
		Default: DefaultSegment,
	}
}

// Of returns the segment of a company, falling back to the default.
func (s Segments) Of(companyID string) string {
	if seg, ok := s.ByCompany[companyID]; ok && seg != "" {
		return seg
	}
	if s.Default == "" {
		return DefaultSegment
	}
	return s.Default
}

// Names lists the configured segment names, unsorted and possibly repeated.
func (s Segments) Names() []string {
	names := make([]string, 0, len(s.ByCompany))
	for _, seg := range s.ByCompany {
		names = append(names, seg)
	}
	return names
}

// NewSegments builds a segment table from an override map. A nil or empty
// map keeps the built-in table; an empty default keeps DefaultSegment.
func NewSegments(byCompany map[string]string, def string) Segments {
	s := DefaultSegments()
	if len(byCompany) > 0 {
		s.ByCompany = byCompany
	}
	if def != "" {
		s.Default = def
	}
	return s
}
