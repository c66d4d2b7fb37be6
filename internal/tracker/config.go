package tracker

// Config holds the tracker endpoint and credentials.
type Config struct {
	Endpoint     string
	Username     string
	Password     string
	ClientID     string
	ClientSecret string
	TimeoutMs    int
	// Limit caps the number of intervals fetched by a full download.
	Limit int
}

// DefaultConfig returns the public aTimeLogger endpoint and Android client
// credentials. Username and password must still be supplied.
func DefaultConfig() Config {
	return Config{
		Endpoint:     "https://app.atimelogger.com",
		ClientID:     "androidClient",
		ClientSecret: "secret",
		TimeoutMs:    30000,
		Limit:        100000,
	}
}
