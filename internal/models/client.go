package models

// ClientInfo describes the caller of an exchange, derived from its User-Agent.
type ClientInfo struct {
	IPAddress      string `json:"ip_address"`
	UserAgent      string `json:"user_agent"`
	BrowserName    string `json:"browser_name"`
	BrowserVersion string `json:"browser_version"`
	OSName         string `json:"os_name"`
	DeviceType     string `json:"device_type"`
}
