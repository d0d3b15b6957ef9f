package utils

import (
	"fmt"
	"oauth-relay/internal/models"

	"github.com/avct/uasurfer"
)

func UserAgentVersionToString(v uasurfer.Version) string {
	return fmt.Sprintf("%d.%d.%d", v.Major, v.Minor, v.Patch)
}

// ParseClientInfo describes a caller from its address and raw User-Agent header.
func ParseClientInfo(ipAddress, rawUserAgent string) models.ClientInfo {
	info := models.ClientInfo{
		IPAddress: ipAddress,
		UserAgent: rawUserAgent,
	}
	if rawUserAgent == "" {
		return info
	}

	ua := uasurfer.Parse(rawUserAgent)
	info.BrowserName = ua.Browser.Name.StringTrimPrefix()
	info.BrowserVersion = UserAgentVersionToString(ua.Browser.Version)
	info.OSName = ua.OS.Name.StringTrimPrefix()
	info.DeviceType = ua.DeviceType.StringTrimPrefix()

	return info
}
