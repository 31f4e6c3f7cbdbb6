package token

import (
	"crypto/sha256"
	"crypto/x509"
	"encoding/asn1"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"
	"time"

	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// ErrMalformedDN indicates a distinguished name that could not be decoded.
var ErrMalformedDN = errors.New("malformed distinguished name")

// ASN.1 string tags that appear in DN attribute values. Vietnamese CA
// certificates routinely mix UTF8String and BMPString attributes.
const (
	tagUTF8String      = 12
	tagPrintableString = 19
	tagTeletexString   = 20
	tagIA5String       = 22
	tagBMPString       = 30
)

// oidShortNames maps DN attribute type OIDs to their conventional
// abbreviations. Unknown OIDs render as dotted decimal.
var oidShortNames = map[string]string{
	"2.5.4.3":  "CN",
	"2.5.4.6":  "C",
	"2.5.4.7":  "L",
	"2.5.4.8":  "ST",
	"2.5.4.10": "O",
	"2.5.4.11": "OU",
}

type dnAttribute struct {
	Type  asn1.ObjectIdentifier
	Value asn1.RawValue
}

// FormatDN renders a DER-encoded RDNSequence as "CN=..., O=..., C=...".
// Attribute order follows the certificate. Values in BMPString (UTF-16BE)
// encoding are decoded to UTF-8; undecodable values render as uppercase hex
// with a '#' prefix.
func FormatDN(raw []byte) (string, error) {
	var rdns []asn1.RawValue
	rest, err := asn1.Unmarshal(raw, &rdns)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrMalformedDN, err)
	}
	if len(rest) != 0 {
		return "", fmt.Errorf("%w: trailing data", ErrMalformedDN)
	}

	var parts []string
	for _, set := range rdns {
		inner := set.Bytes
		for len(inner) > 0 {
			var atv dnAttribute
			inner, err = asn1.Unmarshal(inner, &atv)
			if err != nil {
				return "", fmt.Errorf("%w: %v", ErrMalformedDN, err)
			}
			name := oidShortNames[atv.Type.String()]
			if name == "" {
				name = atv.Type.String()
			}
			parts = append(parts, name+"="+decodeDNValue(atv.Value))
		}
	}

	return strings.Join(parts, ", "), nil
}

// DNAttribute returns the first value of the given attribute OID in a
// DER-encoded RDNSequence, or "" when absent.
func DNAttribute(raw []byte, oid asn1.ObjectIdentifier) string {
	var rdns []asn1.RawValue
	if _, err := asn1.Unmarshal(raw, &rdns); err != nil {
		return ""
	}
	for _, set := range rdns {
		inner := set.Bytes
		for len(inner) > 0 {
			var atv dnAttribute
			var err error
			inner, err = asn1.Unmarshal(inner, &atv)
			if err != nil {
				return ""
			}
			if atv.Type.Equal(oid) {
				return decodeDNValue(atv.Value)
			}
		}
	}
	return ""
}

// CommonNameOf extracts the CN attribute from a DER-encoded RDNSequence.
func CommonNameOf(raw []byte) string {
	return DNAttribute(raw, asn1.ObjectIdentifier{2, 5, 4, 3})
}

// decodeDNValue converts one attribute value to a UTF-8 string.
func decodeDNValue(v asn1.RawValue) string {
	switch v.Tag {
	case tagUTF8String, tagPrintableString, tagIA5String, tagTeletexString:
		return string(v.Bytes)
	case tagBMPString:
		dec := unicode.UTF16(unicode.BigEndian, unicode.IgnoreBOM).NewDecoder()
		out, _, err := transform.Bytes(dec, v.Bytes)
		if err != nil {
			return fmt.Sprintf("#%X", v.Bytes)
		}
		return string(out)
	default:
		return fmt.Sprintf("#%X", v.Bytes)
	}
}

// CertificateInfo is the session-cached description of the signing
// certificate handed to callers and the CLI.
type CertificateInfo struct {
	// SerialNumber is the certificate serial in decimal form.
	SerialNumber string `json:"serial_number"`

	// Subject and Issuer are formatted distinguished names.
	Subject string `json:"subject"`
	Issuer  string `json:"issuer"`

	// CommonName is the subject CN, used as the default signer name.
	CommonName string `json:"common_name"`

	// NotBefore and NotAfter are ISO-8601 UTC instants.
	NotBefore string `json:"not_before"`
	NotAfter  string `json:"not_after"`

	// Thumbprint is the uppercase hex SHA-256 digest of the DER encoding.
	Thumbprint string `json:"thumbprint"`

	// Raw is the base64-encoded DER certificate.
	Raw string `json:"raw"`
}

// NewCertificateInfo builds a CertificateInfo from a parsed certificate.
func NewCertificateInfo(cert *x509.Certificate) (*CertificateInfo, error) {
	if cert == nil {
		return nil, errors.New("certificate is nil")
	}

	subject, err := FormatDN(cert.RawSubject)
	if err != nil {
		return nil, fmt.Errorf("subject: %w", err)
	}
	issuer, err := FormatDN(cert.RawIssuer)
	if err != nil {
		return nil, fmt.Errorf("issuer: %w", err)
	}

	sum := sha256.Sum256(cert.Raw)

	return &CertificateInfo{
		SerialNumber: cert.SerialNumber.String(),
		Subject:      subject,
		Issuer:       issuer,
		CommonName:   CommonNameOf(cert.RawSubject),
		NotBefore:    cert.NotBefore.UTC().Format(time.RFC3339),
		NotAfter:     cert.NotAfter.UTC().Format(time.RFC3339),
		Thumbprint:   fmt.Sprintf("%X", sum[:]),
		Raw:          base64.StdEncoding.EncodeToString(cert.Raw),
	}, nil
}
