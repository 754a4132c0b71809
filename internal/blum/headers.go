package blum

import (
	"fmt"
	"net/http"

	"jordanella.com/blum-go/internal/accounts"
)

const origin = "https://telegram.blum.codes"

var userAgents = map[accounts.Platform]string{
	accounts.PlatformIOS15:   "Mozilla/5.0 (iPhone; CPU iPhone OS 15_0 like Mac OS X) AppleWebKit/605.1.15 (KHTML, like Gecko) Version/15.0 Mobile/15E148 Safari/604.1",
	accounts.PlatformIOS16:   "Mozilla/5.0 (iPhone; CPU iPhone OS 16_4 like Mac OS X) AppleWebKit/605.1.15 (KHTML, like Gecko) Version/16.4 Mobile/15E148 Safari/604.1",
	accounts.PlatformAndroid: "Mozilla/5.0 (Linux; Android 13; SM-G998B) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/114.0.0.0 Mobile Safari/537.36",
	accounts.PlatformWindows: "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/126.0.0.0 Safari/537.36 Edg/126.0.0.0",
	accounts.PlatformMacOS:   "Mozilla/5.0 (Macintosh; Intel Mac OS X 13_4) AppleWebKit/537.36 (KHTML, like Gecko) Version/16.0 Safari/537.36",
}

// Client hints only Chromium on Windows sends
var windowsHints = map[string]string{
	"sec-ch-ua":          `"Microsoft Edge";v="126", "Chromium";v="126", "Not.A/Brand";v="8", "Microsoft Edge WebView2";v="126"`,
	"sec-ch-ua-mobile":   "?0",
	"sec-ch-ua-platform": `"Windows"`,
}

// UserAgent returns the user agent preset for a platform
func UserAgent(platform accounts.Platform) (string, error) {
	ua, ok := userAgents[platform]
	if !ok {
		return "", fmt.Errorf("invalid platform %s", platform)
	}
	return ua, nil
}

// BuildHeaders returns the full header set sent with every request of a session
func BuildHeaders(platform accounts.Platform, token string) (http.Header, error) {
	ua, err := UserAgent(platform)
	if err != nil {
		return nil, err
	}

	h := http.Header{}
	h.Set("User-Agent", ua)
	h.Set("Accept", "application/json, text/plain, */*")
	h.Set("Accept-Language", "en-US,en;q=0.9")
	h.Set("Origin", origin)
	h.Set("Priority", "u=1, i")
	h.Set("Sec-Fetch-Dest", "empty")
	h.Set("Sec-Fetch-Mode", "cors")
	h.Set("Sec-Fetch-Site", "same-site")
	h.Set("Authorization", "Bearer "+token)

	if platform == accounts.PlatformWindows {
		for k, v := range windowsHints {
			h.Set(k, v)
		}
	}

	return h, nil
}
