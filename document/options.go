package document

// config collects document construction settings.
type config struct {
	journalCapacity int
}

func defaultConfig() config {
	return config{journalCapacity: DefaultJournalCapacity}
}

// Option configures a Document at construction.
type Option func(*config)

// WithJournalCapacity sets how many changes the journal retains for
// replay. Older changes are evicted and their versions become
// unanswerable.
func WithJournalCapacity(n int) Option {
	return func(c *config) {
		if n > 0 {
			c.journalCapacity = n
		}
	}
}
