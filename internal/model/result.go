package model

// Method records which extraction stage contributed the data
type Method string

const (
	MethodSiteAdapter      Method = "site-adapter"
	MethodNetworkIntercept Method = "network-intercept"
	MethodUnknown          Method = "unknown"
	MethodFailed           Method = "failed"
)

// Result is the outcome of one extraction run
type Result struct {
	Source    string  `json:"source" bson:"source"`
	URL       string  `json:"url" bson:"url"`
	ScrapedAt string  `json:"scrapedAt" bson:"scraped_at"`
	Method    Method  `json:"method" bson:"method"`
	Error     string  `json:"error,omitempty" bson:"error,omitempty"`
	Record    *Record `json:"record,omitempty" bson:"-"`

	// Raw is the merged bag before projection, kept for debugging
	Raw *Bag `json:"-" bson:"-"`
}

// Failed reports whether the run produced no data
func (r *Result) Failed() bool {
	return r.Method == MethodFailed
}
