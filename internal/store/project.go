package store

// Project is a working tree the dashboard manages sessions for.
type Project struct {
	ID        string
	Name      string
	Path      string
	Templates []string
	Stage     string
}

// Clone returns a copy safe to hand to observers.
func (p *Project) Clone() *Project {
	if p == nil {
		return nil
	}
	dup := *p
	dup.Templates = append([]string(nil), p.Templates...)
	return &dup
}
