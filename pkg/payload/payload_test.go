package payload

import (
	"testing"

	"github.com/matzehuels/emojiqr/pkg/errors"
)

func TestBuild(t *testing.T) {
	tests := []struct {
		name   string
		kind   string
		fields map[string]string
		want   string
	}{
		{"text", "text", map[string]string{"text": "hello world"}, "hello world"},
		{"empty kind is text", "", map[string]string{"text": "hi"}, "hi"},
		{"url", "URL", map[string]string{"url": " https://example.com "}, "https://example.com"},
		{
			"url tracking",
			"url",
			map[string]string{"url": "https://example.com", "source": "flyer", "tracking": "a b"},
			"https://example.com?source=flyer&medium=&tracking=a+b",
		},
		{
			"url tracking existing query",
			"url",
			map[string]string{"url": "https://example.com/?x=1", "medium": "print"},
			"https://example.com/?x=1&source=&medium=print&tracking=",
		},
		{
			"wifi",
			"wifi",
			map[string]string{"ssid": "Home", "security": "WPA", "password": "secret"},
			"WIFI:S:Home;T:WPA;P:secret;;",
		},
		{
			"wifi escaping",
			"WiFi",
			map[string]string{"ssid": `My;Net,work`, "password": `a:b\c`, "hidden": "true"},
			`WIFI:S:My\;Net\,work;P:a\:b\\c;H:true;;`,
		},
		{
			"wifi nopass",
			"wifi",
			map[string]string{"ssid": "Cafe", "security": "nopass"},
			"WIFI:S:Cafe;;",
		},
		{"sms", "sms", map[string]string{"number": "5551234567", "text": " hi "}, "SMSTO:5551234567:hi"},
		{"message alias", "Message", map[string]string{"number": "555"}, "SMSTO:555:"},
		{
			"paypal",
			"payment",
			map[string]string{"mode": "paypal", "user": "@jo", "amount": "5"},
			"https://paypal.me/jo/5",
		},
		{
			"cashapp bad amount",
			"payment",
			map[string]string{"mode": "cashapp", "user": "$jo", "amount": "lots"},
			"https://cash.app/$jo",
		},
		{
			"venmo",
			"payment",
			map[string]string{"mode": "venmo", "user": "jo", "amount": "2.50", "note": "coffee & cake"},
			"https://venmo.com/jo?txn=pay&amount=2.50&note=coffee%20%26%20cake",
		},
		{
			"payment link",
			"payment",
			map[string]string{"link": "https://buy.stripe.com/x"},
			"https://buy.stripe.com/x",
		},
		{
			"google map point",
			"map",
			map[string]string{"lat": "52.5", "lng": "13.4"},
			"https://maps.google.com/?q=52.5,13.4",
		},
		{
			"apple map query",
			"map",
			map[string]string{"provider": "apple", "query": "Main St"},
			"https://maps.apple.com/?q=Main%20St",
		},
		{
			"geo label",
			"geo",
			map[string]string{"provider": "geo", "lat": "1", "lng": "2", "query": "Home"},
			"geo:1,2?q=1,2(Home)",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Build(tt.kind, tt.fields)
			if err != nil {
				t.Fatalf("Build() error: %v", err)
			}
			if got != tt.want {
				t.Errorf("Build() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestBuildVCard(t *testing.T) {
	got, err := Build("contact", map[string]string{
		"first":  "Ada",
		"last":   "Lovelace",
		"org":    "Analytical, Inc",
		"phone":  "+44 1",
		"email":  "ada@example.com",
		"city":   "London",
		"bday":   "1815-12-10",
		"note":   "line1\nline2",
		"url":    "https://ada.example",
		"title":  "",
		"phone2": "",
	})
	if err != nil {
		t.Fatalf("Build() error: %v", err)
	}
	want := "BEGIN:VCARD\n" +
		"VERSION:3.0\n" +
		"N:Lovelace;Ada;;;\n" +
		"FN:Ada Lovelace\n" +
		"ORG:Analytical\\, Inc\n" +
		"TEL;TYPE=CELL:+44 1\n" +
		"EMAIL;TYPE=INTERNET:ada@example.com\n" +
		"ADR;TYPE=HOME:;;;London;;;\n" +
		"URL:https://ada.example\n" +
		"BDAY:18151210\n" +
		"NOTE:line1\\nline2\n" +
		"END:VCARD"
	if got != want {
		t.Errorf("Build() =\n%s\nwant\n%s", got, want)
	}
}

func TestBuildErrors(t *testing.T) {
	tests := []struct {
		name   string
		kind   string
		fields map[string]string
		code   errors.Code
	}{
		{"unknown kind", "bitcoin", nil, errors.ErrCodeUnsupported},
		{"empty text", "text", map[string]string{"text": "  "}, errors.ErrCodeInvalidPayload},
		{"url missing", "url", nil, errors.ErrCodeInvalidPayload},
		{"wifi missing ssid", "wifi", map[string]string{"password": "x"}, errors.ErrCodeInvalidPayload},
		{"sms missing number", "sms", map[string]string{"text": "hi"}, errors.ErrCodeInvalidPayload},
		{"vcard missing name", "vcard", map[string]string{"org": "Acme"}, errors.ErrCodeInvalidPayload},
		{"payment missing user", "payment", map[string]string{"mode": "venmo"}, errors.ErrCodeInvalidPayload},
		{"payment unknown mode", "payment", map[string]string{"mode": "zelle", "user": "x"}, errors.ErrCodeUnsupported},
		{"map missing", "map", map[string]string{"lat": "1"}, errors.ErrCodeInvalidPayload},
		{"map provider", "map", map[string]string{"provider": "bing", "query": "x"}, errors.ErrCodeUnsupported},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Build(tt.kind, tt.fields)
			if got := errors.GetCode(err); got != tt.code {
				t.Errorf("Build() code = %v, want %v (err: %v)", got, tt.code, err)
			}
		})
	}
}

func TestParseKind(t *testing.T) {
	tests := []struct {
		in   string
		want Kind
	}{
		{"URL", KindURL},
		{" wifi ", KindWiFi},
		{"Contact", KindVCard},
		{"message", KindSMS},
		{"payment", KindPayment},
		{"link", KindURL},
	}
	for _, tt := range tests {
		got, err := ParseKind(tt.in)
		if err != nil {
			t.Fatalf("ParseKind(%q) error: %v", tt.in, err)
		}
		if got != tt.want {
			t.Errorf("ParseKind(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}
