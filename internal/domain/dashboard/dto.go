package dashboard

type Summary struct {
	Leads     int64   `json:"leads"`
	Clients   int64   `json:"clients"`
	Revenue   float64 `json:"revenue"`
	OpenTasks int64   `json:"openTasks"`
}
