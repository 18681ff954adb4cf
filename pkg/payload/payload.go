// Package payload builds the text encoded into a QR symbol from structured
// fields.
//
// Each [Kind] has a small set of field names. Missing required fields fail
// with INVALID_PAYLOAD; unknown kinds fail with UNSUPPORTED.
//
//	data, err := payload.Build("wifi", map[string]string{
//	    "ssid":     "Home",
//	    "security": "WPA",
//	    "password": "secret",
//	})
//	// WIFI:S:Home;T:WPA;P:secret;;
package payload

import (
	"slices"
	"strings"

	"github.com/matzehuels/emojiqr/pkg/errors"
)

// Kind names a payload format.
type Kind string

const (
	KindText    Kind = "text"
	KindURL     Kind = "url"
	KindPayment Kind = "payment"
	KindWiFi    Kind = "wifi"
	KindSMS     Kind = "sms"
	KindVCard   Kind = "vcard"
	KindMap     Kind = "map"
)

// Kinds lists the supported payload formats.
var Kinds = []Kind{KindText, KindURL, KindPayment, KindWiFi, KindSMS, KindVCard, KindMap}

var aliases = map[string]Kind{
	"":        KindText,
	"link":    KindURL,
	"contact": KindVCard,
	"message": KindSMS,
	"geo":     KindMap,
}

// ParseKind resolves a kind name, accepting the preset type names
// (Contact, Message) as aliases.
func ParseKind(s string) (Kind, error) {
	key := strings.ToLower(strings.TrimSpace(s))
	if k, ok := aliases[key]; ok {
		return k, nil
	}
	if k := Kind(key); slices.Contains(Kinds, k) {
		return k, nil
	}
	return "", errors.New(errors.ErrCodeUnsupported, "unsupported payload kind %q", s)
}

// Fields holds the named inputs of a payload.
type Fields map[string]string

// Get returns the trimmed value of key.
func (f Fields) Get(key string) string {
	return strings.TrimSpace(f[key])
}

// Raw returns the untrimmed value of key.
func (f Fields) Raw(key string) string {
	return f[key]
}

func (f Fields) require(kind Kind, key string) (string, error) {
	v := f.Get(key)
	if v == "" {
		return "", errors.New(errors.ErrCodeInvalidPayload, "%s payload requires %q", kind, key)
	}
	return v, nil
}

type builder func(Fields) (string, error)

var builders = map[Kind]builder{
	KindText:    buildText,
	KindURL:     buildURL,
	KindPayment: buildPayment,
	KindWiFi:    buildWiFi,
	KindSMS:     buildSMS,
	KindVCard:   buildVCard,
	KindMap:     buildMap,
}

// Build returns the encoded text for kind from fields.
func Build(kind string, fields map[string]string) (string, error) {
	k, err := ParseKind(kind)
	if err != nil {
		return "", err
	}
	return builders[k](Fields(fields))
}

func buildText(f Fields) (string, error) {
	if f.Get("text") == "" {
		return "", errors.New(errors.ErrCodeInvalidPayload, "text payload requires %q", "text")
	}
	return f.Raw("text"), nil
}

func buildSMS(f Fields) (string, error) {
	number, err := f.require(KindSMS, "number")
	if err != nil {
		return "", err
	}
	return "SMSTO:" + number + ":" + f.Get("text"), nil
}
