package templates

// Layout carries the fields every page's shared chrome reads. Page view
// models embed it.
type Layout struct {
	AppName string
	Query   string
}
