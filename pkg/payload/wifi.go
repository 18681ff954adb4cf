package payload

import "strings"

var wifiEscaper = strings.NewReplacer(`\`, `\\`, `;`, `\;`, `,`, `\,`, `:`, `\:`)

func buildWiFi(f Fields) (string, error) {
	ssid, err := f.require(KindWiFi, "ssid")
	if err != nil {
		return "", err
	}

	var b strings.Builder
	b.WriteString("WIFI:S:" + wifiEscaper.Replace(ssid) + ";")
	if sec := f.Get("security"); sec != "" && !strings.EqualFold(sec, "nopass") {
		b.WriteString("T:" + wifiEscaper.Replace(sec) + ";")
	}
	// Passwords keep surrounding whitespace.
	if pwd := f.Raw("password"); pwd != "" {
		b.WriteString("P:" + wifiEscaper.Replace(pwd) + ";")
	}
	if isTrue(f.Get("hidden")) {
		b.WriteString("H:true;")
	}
	b.WriteString(";")
	return b.String(), nil
}

func isTrue(s string) bool {
	switch strings.ToLower(s) {
	case "1", "true", "yes", "on":
		return true
	}
	return false
}
