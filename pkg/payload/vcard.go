package payload

import (
	"strings"

	"github.com/matzehuels/emojiqr/pkg/errors"
)

var vcardEscaper = strings.NewReplacer(`\`, `\\`, `;`, `\;`, `,`, `\,`, "\n", `\n`)

func buildVCard(f Fields) (string, error) {
	first, last := f.Get("first"), f.Get("last")
	if first == "" && last == "" {
		return "", errors.New(errors.ErrCodeInvalidPayload, "vcard payload requires %q or %q", "first", "last")
	}
	esc := vcardEscaper.Replace

	lines := []string{
		"BEGIN:VCARD",
		"VERSION:3.0",
		"N:" + esc(last) + ";" + esc(first) + ";;;",
		"FN:" + esc(strings.TrimSpace(first+" "+last)),
	}
	add := func(prop, key string) {
		if v := f.Get(key); v != "" {
			lines = append(lines, prop+":"+esc(v))
		}
	}
	typed := func(prop, key, typeKey, def string) {
		v := f.Get(key)
		if v == "" {
			return
		}
		t := f.Get(typeKey)
		if t == "" {
			t = def
		}
		lines = append(lines, prop+";TYPE="+esc(strings.ToUpper(t))+":"+esc(v))
	}

	add("ORG", "org")
	add("TITLE", "title")
	typed("TEL", "phone", "phone_type", "CELL")
	typed("TEL", "phone2", "phone2_type", "WORK")
	typed("EMAIL", "email", "email_type", "INTERNET")
	typed("EMAIL", "email2", "email2_type", "INTERNET")

	addr := []string{f.Get("street"), f.Get("city"), f.Get("region"), f.Get("postal"), f.Get("country")}
	if strings.Join(addr, "") != "" {
		for i := range addr {
			addr[i] = esc(addr[i])
		}
		lines = append(lines, "ADR;TYPE=HOME:;;"+strings.Join(addr, ";"))
	}

	add("URL", "url")
	if b := strings.ReplaceAll(f.Get("bday"), "-", ""); isDate(b) {
		lines = append(lines, "BDAY:"+b)
	}
	add("NOTE", "note")
	lines = append(lines, "END:VCARD")
	return strings.Join(lines, "\n"), nil
}

// isDate reports whether s looks like YYYYMMDD.
func isDate(s string) bool {
	if len(s) != 8 {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
