// Package crypt provides PDF encryption and decryption.
// This file implements public key encryption as per PDF specification.
package crypt

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/ecdh"
	"crypto/rand"
	"crypto/rsa"
	"crypto/sha1"
	"crypto/sha256"
	"crypto/sha512"
	"crypto/x509"
	"encoding/asn1"
	"errors"
	"fmt"
	"hash"
)

// Public key encryption errors
var (
	ErrNoCertificate           = errors.New("no certificate provided")
	ErrNoPrivateKey            = errors.New("no private key provided")
	ErrUnsupportedKeyType      = errors.New("unsupported key type")
	ErrRecipientNotFound       = errors.New("recipient not found in CMS")
	ErrInvalidEnvelopedData    = errors.New("invalid enveloped data")
	ErrInappropriateCredential = errors.New("inappropriate credential for operation")
	ErrKeyUsageViolation       = errors.New("certificate key usage does not permit key encipherment")
)

// PubKeyPermissions represents permissions for public key encryption.
type PubKeyPermissions uint32

const (
	// PubKeyPermPrint allows printing.
	PubKeyPermPrint PubKeyPermissions = 1 << 2
	// PubKeyPermModify allows document modification.
	PubKeyPermModify PubKeyPermissions = 1 << 3
	// PubKeyPermCopy allows text/graphics extraction.
	PubKeyPermCopy PubKeyPermissions = 1 << 4
	// PubKeyPermAnnotate allows adding/modifying annotations.
	PubKeyPermAnnotate PubKeyPermissions = 1 << 5
	// PubKeyPermFillForms allows filling forms.
	PubKeyPermFillForms PubKeyPermissions = 1 << 8
	// PubKeyPermAccessibility allows accessibility extraction.
	PubKeyPermAccessibility PubKeyPermissions = 1 << 9
	// PubKeyPermAssemble allows document assembly.
	PubKeyPermAssemble PubKeyPermissions = 1 << 10
	// PubKeyPermPrintHighQuality allows high quality printing.
	PubKeyPermPrintHighQuality PubKeyPermissions = 1 << 11
	// PubKeyPermTolerateMissingMAC tolerates missing PDF MAC.
	PubKeyPermTolerateMissingMAC PubKeyPermissions = 1 << 12
)

// AllowEverything returns permissions that allow everything.
func (p PubKeyPermissions) AllowEverything() PubKeyPermissions {
	return PubKeyPermPrint | PubKeyPermModify | PubKeyPermCopy |
		PubKeyPermAnnotate | PubKeyPermFillForms | PubKeyPermAccessibility |
		PubKeyPermAssemble | PubKeyPermPrintHighQuality | PubKeyPermTolerateMissingMAC
}

// AsBytes returns the permissions as a 4-byte array (little-endian).
func (p PubKeyPermissions) AsBytes() []byte {
	return []byte{
		byte(p),
		byte(p >> 8),
		byte(p >> 16),
		byte(p >> 24),
	}
}

// PubKeyPermissionsFromBytes creates permissions from a 4-byte array.
func PubKeyPermissionsFromBytes(data []byte) PubKeyPermissions {
	if len(data) < 4 {
		return 0
	}
	return PubKeyPermissions(data[0]) |
		PubKeyPermissions(data[1])<<8 |
		PubKeyPermissions(data[2])<<16 |
		PubKeyPermissions(data[3])<<24
}

// PubKeyAdbeSubFilter represents the subfilter for public key encryption.
type PubKeyAdbeSubFilter string

const (
	// SubFilterS3 is adbe.pkcs7.s3 - basic public key.
	SubFilterS3 PubKeyAdbeSubFilter = "/adbe.pkcs7.s3"
	// SubFilterS4 is adbe.pkcs7.s4 - without crypt filters.
	SubFilterS4 PubKeyAdbeSubFilter = "/adbe.pkcs7.s4"
	// SubFilterS5 is adbe.pkcs7.s5 - with crypt filters.
	SubFilterS5 PubKeyAdbeSubFilter = "/adbe.pkcs7.s5"
)

// RecipientEncryptionPolicy specifies encryption options for recipients.
type RecipientEncryptionPolicy struct {
	// IgnoreKeyUsage ignores key usage bits in recipient certificate.
	IgnoreKeyUsage bool
	// PreferOAEP uses RSAES-OAEP for RSA recipients (not widely supported).
	PreferOAEP bool
}

// EnvelopeKeyDecrypter decrypts envelope keys using recipient credentials.
type EnvelopeKeyDecrypter interface {
	// Certificate returns the recipient's certificate.
	Certificate() *x509.Certificate
	// Decrypt decrypts using key transport (RSA).
	Decrypt(encryptedKey []byte, algo KeyEncryptionAlgorithm) ([]byte, error)
	// DecryptWithExchange decrypts using key agreement (ECDH).
	DecryptWithExchange(encryptedKey []byte, algo KeyEncryptionAlgorithm,
		originatorKey []byte, ukm []byte) ([]byte, error)
}

// KeyEncryptionAlgorithm identifies the key encryption algorithm.
type KeyEncryptionAlgorithm struct {
	Algorithm  asn1.ObjectIdentifier
	Parameters interface{}
}

// Common algorithm OIDs
var (
	OIDRSAESPKCSv15  = asn1.ObjectIdentifier{1, 2, 840, 113549, 1, 1, 1}
	OIDRSAESOAEP     = asn1.ObjectIdentifier{1, 2, 840, 113549, 1, 1, 7}
	OIDAESWrap128    = asn1.ObjectIdentifier{2, 16, 840, 1, 101, 3, 4, 1, 5}
	OIDAESWrap192    = asn1.ObjectIdentifier{2, 16, 840, 1, 101, 3, 4, 1, 25}
	OIDAESWrap256    = asn1.ObjectIdentifier{2, 16, 840, 1, 101, 3, 4, 1, 45}
	OIDAESCBCPad128  = asn1.ObjectIdentifier{2, 16, 840, 1, 101, 3, 4, 1, 2}
	OIDAESCBCPad192  = asn1.ObjectIdentifier{2, 16, 840, 1, 101, 3, 4, 1, 22}
	OIDAESCBCPad256  = asn1.ObjectIdentifier{2, 16, 840, 1, 101, 3, 4, 1, 42}
	OIDSHA256        = asn1.ObjectIdentifier{2, 16, 840, 1, 101, 3, 4, 2, 1}
	OIDSHA384        = asn1.ObjectIdentifier{2, 16, 840, 1, 101, 3, 4, 2, 2}
	OIDSHA512        = asn1.ObjectIdentifier{2, 16, 840, 1, 101, 3, 4, 2, 3}
	OIDEnvelopedData = asn1.ObjectIdentifier{1, 2, 840, 113549, 1, 7, 3}
	OIDData          = asn1.ObjectIdentifier{1, 2, 840, 113549, 1, 7, 1}
)

// ECDH key agreement OIDs (dhSinglePass-stdDH-*)
var (
	OIDDHSinglePassStdDHSHA256KDF = asn1.ObjectIdentifier{1, 3, 132, 1, 11, 1}
	OIDDHSinglePassStdDHSHA384KDF = asn1.ObjectIdentifier{1, 3, 132, 1, 11, 2}
	OIDDHSinglePassStdDHSHA512KDF = asn1.ObjectIdentifier{1, 3, 132, 1, 11, 3}
)

// SimpleEnvelopeKeyDecrypter implements EnvelopeKeyDecrypter with in-memory keys.
type SimpleEnvelopeKeyDecrypter struct {
	cert       *x509.Certificate
	privateKey interface{} // *rsa.PrivateKey or *ecdh.PrivateKey
}

// NewSimpleEnvelopeKeyDecrypter creates a new envelope key decrypter.
func NewSimpleEnvelopeKeyDecrypter(cert *x509.Certificate, privateKey interface{}) (*SimpleEnvelopeKeyDecrypter, error) {
	if cert == nil {
		return nil, ErrNoCertificate
	}
	if privateKey == nil {
		return nil, ErrNoPrivateKey
	}

	return &SimpleEnvelopeKeyDecrypter{
		cert:       cert,
		privateKey: privateKey,
	}, nil
}

// Certificate returns the recipient's certificate.
func (d *SimpleEnvelopeKeyDecrypter) Certificate() *x509.Certificate {
	return d.cert
}

// Decrypt decrypts using RSA.
func (d *SimpleEnvelopeKeyDecrypter) Decrypt(encryptedKey []byte, algo KeyEncryptionAlgorithm) ([]byte, error) {
	rsaKey, ok := d.privateKey.(*rsa.PrivateKey)
	if !ok {
		return nil, ErrInappropriateCredential
	}

	// Check algorithm
	if algo.Algorithm.Equal(OIDRSAESPKCSv15) {
		return rsa.DecryptPKCS1v15(rand.Reader, rsaKey, encryptedKey)
	} else if algo.Algorithm.Equal(OIDRSAESOAEP) {
		// Default to SHA-256 for OAEP
		return rsa.DecryptOAEP(sha256.New(), rand.Reader, rsaKey, encryptedKey, nil)
	}

	return nil, fmt.Errorf("unsupported RSA encryption algorithm: %v", algo.Algorithm)
}

// DecryptWithExchange decrypts using ECDH key agreement.
func (d *SimpleEnvelopeKeyDecrypter) DecryptWithExchange(encryptedKey []byte, algo KeyEncryptionAlgorithm,
	originatorKey []byte, ukm []byte) ([]byte, error) {

	ecdhKey, ok := d.privateKey.(*ecdh.PrivateKey)
	if !ok {
		return nil, ErrInappropriateCredential
	}

	// Parse originator public key
	originatorPubKey, err := parseECDHPublicKey(originatorKey)
	if err != nil {
		return nil, fmt.Errorf("failed to parse originator key: %w", err)
	}

	// Perform ECDH
	sharedSecret, err := ecdhKey.ECDH(originatorPubKey)
	if err != nil {
		return nil, fmt.Errorf("ECDH failed: %w", err)
	}

	// Determine key wrap algorithm and KDF settings
	kekLen, hashFunc, err := getKDFSettings(algo)
	if err != nil {
		return nil, err
	}

	// Derive KEK using X9.63 KDF
	kek := x963KDF(sharedSecret, ukm, algo, kekLen, hashFunc)

	// Unwrap the content encryption key
	return aesKeyUnwrap(kek, encryptedKey)
}

// parseECDHPublicKey parses an ECDH public key from DER-encoded SubjectPublicKeyInfo.
func parseECDHPublicKey(der []byte) (*ecdh.PublicKey, error) {
	pub, err := x509.ParsePKIXPublicKey(der)
	if err != nil {
		return nil, err
	}

	switch key := pub.(type) {
	case *ecdh.PublicKey:
		return key, nil
	default:
		return nil, ErrUnsupportedKeyType
	}
}

// getKDFSettings returns key length and hash function for KDF.
func getKDFSettings(algo KeyEncryptionAlgorithm) (int, func() hash.Hash, error) {
	// Check for AES key wrap algorithms in parameters
	if algo.Algorithm.Equal(OIDDHSinglePassStdDHSHA256KDF) {
		return 16, sha256.New, nil // AES-128
	} else if algo.Algorithm.Equal(OIDDHSinglePassStdDHSHA384KDF) {
		return 24, sha512.New384, nil // AES-192
	} else if algo.Algorithm.Equal(OIDDHSinglePassStdDHSHA512KDF) {
		return 32, sha512.New, nil // AES-256
	}

	return 0, nil, fmt.Errorf("unsupported key agreement algorithm: %v", algo.Algorithm)
}

// x963KDF implements the ANSI X9.63 Key Derivation Function.
func x963KDF(sharedSecret, ukm []byte, algo KeyEncryptionAlgorithm, keyLen int, hashFunc func() hash.Hash) []byte {
	h := hashFunc()
	hashLen := h.Size()

	// SharedInfo = algorithm || ukm || key length
	sharedInfo := buildECCCMSSharedInfo(algo, ukm, keyLen)

	var result []byte
	counter := uint32(1)

	for len(result) < keyLen {
		h.Reset()
		h.Write(sharedSecret)
		h.Write([]byte{
			byte(counter >> 24),
			byte(counter >> 16),
			byte(counter >> 8),
			byte(counter),
		})
		h.Write(sharedInfo)
		result = append(result, h.Sum(nil)...)
		counter++
	}

	// Only compute what we need
	iterations := (keyLen + hashLen - 1) / hashLen
	_ = iterations

	return result[:keyLen]
}

// buildECCCMSSharedInfo builds the ECC-CMS-SharedInfo structure.
func buildECCCMSSharedInfo(algo KeyEncryptionAlgorithm, ukm []byte, keyLen int) []byte {
	// Simplified: just concatenate the components
	// In practice, this should be proper ASN.1 DER encoding
	suppPubInfo := []byte{
		byte(keyLen * 8 >> 24),
		byte(keyLen * 8 >> 16),
		byte(keyLen * 8 >> 8),
		byte(keyLen * 8),
	}

	result := make([]byte, 0, len(ukm)+len(suppPubInfo)+20)
	// Algorithm identifier would go here
	if ukm != nil {
		result = append(result, ukm...)
	}
	result = append(result, suppPubInfo...)

	return result
}

// aesKeyUnwrap implements RFC 3394 AES Key Unwrap.
func aesKeyUnwrap(kek, wrapped []byte) ([]byte, error) {
	if len(wrapped) < 24 || len(wrapped)%8 != 0 {
		return nil, errors.New("invalid wrapped key length")
	}

	block, err := aes.NewCipher(kek)
	if err != nil {
		return nil, err
	}

	n := (len(wrapped) / 8) - 1
	a := make([]byte, 8)
	copy(a, wrapped[:8])
	r := make([][]byte, n)
	for i := 0; i < n; i++ {
		r[i] = make([]byte, 8)
		copy(r[i], wrapped[(i+1)*8:(i+2)*8])
	}

	// Unwrap
	for j := 5; j >= 0; j-- {
		for i := n; i >= 1; i-- {
			// A ^ t
			t := uint64(n*j + i)
			a[0] ^= byte(t >> 56)
			a[1] ^= byte(t >> 48)
			a[2] ^= byte(t >> 40)
			a[3] ^= byte(t >> 32)
			a[4] ^= byte(t >> 24)
			a[5] ^= byte(t >> 16)
			a[6] ^= byte(t >> 8)
			a[7] ^= byte(t)

			// B = AES-1(K, (A ^ t) | R[i])
			b := make([]byte, 16)
			copy(b[:8], a)
			copy(b[8:], r[i-1])
			block.Decrypt(b, b)

			copy(a, b[:8])
			copy(r[i-1], b[8:])
		}
	}

	// Check IV
	defaultIV := []byte{0xA6, 0xA6, 0xA6, 0xA6, 0xA6, 0xA6, 0xA6, 0xA6}
	for i := 0; i < 8; i++ {
		if a[i] != defaultIV[i] {
			return nil, errors.New("key unwrap failed: invalid integrity check")
		}
	}

	// Concatenate R values
	result := make([]byte, 0, n*8)
	for i := 0; i < n; i++ {
		result = append(result, r[i]...)
	}

	return result, nil
}

// aesKeyWrap implements RFC 3394 AES Key Wrap.
func aesKeyWrap(kek, plaintext []byte) ([]byte, error) {
	if len(plaintext)%8 != 0 || len(plaintext) < 16 {
		return nil, errors.New("invalid plaintext length for key wrap")
	}

	block, err := aes.NewCipher(kek)
	if err != nil {
		return nil, err
	}

	n := len(plaintext) / 8
	a := []byte{0xA6, 0xA6, 0xA6, 0xA6, 0xA6, 0xA6, 0xA6, 0xA6}
	r := make([][]byte, n)
	for i := 0; i < n; i++ {
		r[i] = make([]byte, 8)
		copy(r[i], plaintext[i*8:(i+1)*8])
	}

	// Wrap
	for j := 0; j <= 5; j++ {
		for i := 1; i <= n; i++ {
			// B = AES(K, A | R[i])
			b := make([]byte, 16)
			copy(b[:8], a)
			copy(b[8:], r[i-1])
			block.Encrypt(b, b)

			// A = MSB(64, B) ^ t
			t := uint64(n*j + i)
			copy(a, b[:8])
			a[0] ^= byte(t >> 56)
			a[1] ^= byte(t >> 48)
			a[2] ^= byte(t >> 40)
			a[3] ^= byte(t >> 32)
			a[4] ^= byte(t >> 24)
			a[5] ^= byte(t >> 16)
			a[6] ^= byte(t >> 8)
			a[7] ^= byte(t)

			copy(r[i-1], b[8:])
		}
	}

	// Concatenate A and R values
	result := make([]byte, 0, 8+n*8)
	result = append(result, a...)
	for i := 0; i < n; i++ {
		result = append(result, r[i]...)
	}

	return result, nil
}

// PubKeyCryptFilter is a crypt filter for public key encryption.
type PubKeyCryptFilter struct {
	*CryptFilter
	Recipients      [][]byte // CMS EnvelopedData objects
	ActsAsDefault   bool
	EncryptMetadata bool

	handler     *PubKeySecurityHandler
	sharedKey   []byte
	recpKeySeed []byte
	authFailed  bool
}

// NewPubKeyCryptFilter creates a new public key crypt filter.
func NewPubKeyCryptFilter(filterType CryptFilterType, keyLength int, actsAsDefault bool, encryptMetadata bool) *PubKeyCryptFilter {
	return &PubKeyCryptFilter{
		CryptFilter:     NewCryptFilter(filterType, keyLength),
		ActsAsDefault:   actsAsDefault,
		EncryptMetadata: encryptMetadata,
	}
}

// SetSecurityHandler sets the security handler for this filter.
func (f *PubKeyCryptFilter) SetSecurityHandler(handler *PubKeySecurityHandler) {
	f.handler = handler
	f.sharedKey = nil
	f.recpKeySeed = nil
}

// SharedKey returns the shared encryption key.
func (f *PubKeyCryptFilter) SharedKey() []byte {
	return f.sharedKey
}

// AddRecipients adds recipients to the crypt filter.
func (f *PubKeyCryptFilter) AddRecipients(certs []*x509.Certificate, policy RecipientEncryptionPolicy, perms PubKeyPermissions) error {
	if !f.ActsAsDefault && len(f.Recipients) > 0 {
		return errors.New("non-default crypt filter cannot have multiple recipient sets")
	}

	if f.Recipients == nil {
		// Generate new seed
		f.recpKeySeed = make([]byte, 20)
		if _, err := rand.Read(f.recpKeySeed); err != nil {
			return err
		}
		f.Recipients = make([][]byte, 0)
	}

	if f.sharedKey != nil || f.recpKeySeed == nil {
		return errors.New("cannot add recipients after key derivation or before authentication")
	}

	// Construct CMS EnvelopedData for recipients
	cms, err := constructRecipientCMS(certs, f.recpKeySeed, perms, policy, f.ActsAsDefault)
	if err != nil {
		return err
	}

	f.Recipients = append(f.Recipients, cms)
	return nil
}

// Authenticate authenticates using the provided credential.
func (f *PubKeyCryptFilter) Authenticate(credential EnvelopeKeyDecrypter) (AuthStatus, PubKeyPermissions, error) {
	for _, recp := range f.Recipients {
		seed, perms, err := readSeedFromRecipientCMS(recp, credential)
		if err != nil {
			continue // Try next recipient
		}
		if seed != nil {
			f.recpKeySeed = seed
			return AuthStatusUser, perms, nil
		}
	}

	f.authFailed = true
	return AuthStatusFailed, 0, ErrRecipientNotFound
}

// DeriveSharedKey derives the shared encryption key.
func (f *PubKeyCryptFilter) DeriveSharedKey(version SecurityHandlerVersion) ([]byte, error) {
	if f.recpKeySeed == nil {
		return nil, errors.New("no seed available; authenticate first")
	}

	var h hash.Hash
	if version >= SecurityHandlerVersionAES256 {
		h = sha256.New()
	} else {
		h = sha1.New()
	}

	h.Write(f.recpKeySeed)
	for _, recp := range f.Recipients {
		h.Write(recp)
	}

	if !f.EncryptMetadata && f.ActsAsDefault {
		h.Write([]byte{0xff, 0xff, 0xff, 0xff})
	}

	digest := h.Sum(nil)
	f.sharedKey = digest[:f.KeyLength]

	return f.sharedKey, nil
}

// constructRecipientCMS constructs a CMS EnvelopedData for recipients.
func constructRecipientCMS(certs []*x509.Certificate, seed []byte, perms PubKeyPermissions,
	policy RecipientEncryptionPolicy, includePermissions bool) ([]byte, error) {

	// Build envelope content (seed + optional permissions)
	envelopeContent := seed
	if includePermissions {
		envelopeContent = append(envelopeContent, perms.AsBytes()...)
	}

	// Generate 256-bit envelope key
	envelopeKey := make([]byte, 32)
	if _, err := rand.Read(envelopeKey); err != nil {
		return nil, err
	}

	// Encrypt envelope content with envelope key using AES-256-CBC
	iv := make([]byte, 16)
	if _, err := rand.Read(iv); err != nil {
		return nil, err
	}

	block, err := aes.NewCipher(envelopeKey)
	if err != nil {
		return nil, err
	}

	// Pad and encrypt
	padded := PKCS7Pad(envelopeContent, aes.BlockSize)
	encrypted := make([]byte, len(padded))
	mode := cipher.NewCBCEncrypter(block, iv)
	mode.CryptBlocks(encrypted, padded)

	// Build RecipientInfo for each certificate
	recipientInfos := make([][]byte, 0, len(certs))
	for _, cert := range certs {
		if !policy.IgnoreKeyUsage {
			if cert.KeyUsage&x509.KeyUsageKeyEncipherment == 0 {
				return nil, fmt.Errorf("certificate for %s does not have key encipherment usage", cert.Subject)
			}
		}

		recInfo, err := buildRecipientInfo(cert, envelopeKey, policy)
		if err != nil {
			return nil, err
		}
		recipientInfos = append(recipientInfos, recInfo)
	}

	// Build EnvelopedData structure (simplified DER encoding)
	return buildEnvelopedData(recipientInfos, iv, encrypted)
}

// buildRecipientInfo builds a RecipientInfo for a certificate.
func buildRecipientInfo(cert *x509.Certificate, envelopeKey []byte, policy RecipientEncryptionPolicy) ([]byte, error) {
	switch pub := cert.PublicKey.(type) {
	case *rsa.PublicKey:
		var encrypted []byte
		var err error

		if policy.PreferOAEP {
			encrypted, err = rsa.EncryptOAEP(sha256.New(), rand.Reader, pub, envelopeKey, nil)
		} else {
			encrypted, err = rsa.EncryptPKCS1v15(rand.Reader, pub, envelopeKey)
		}

		if err != nil {
			return nil, err
		}

		// Build KeyTransRecipientInfo (simplified)
		return buildKeyTransRecipientInfo(cert, encrypted, policy.PreferOAEP)

	default:
		return nil, fmt.Errorf("unsupported public key type: %T", cert.PublicKey)
	}
}

// buildKeyTransRecipientInfo builds a KeyTransRecipientInfo structure.
func buildKeyTransRecipientInfo(cert *x509.Certificate, encryptedKey []byte, useOAEP bool) ([]byte, error) {
	// Simplified structure - in practice use proper ASN.1 encoding
	// This is a placeholder that would need full ASN.1 DER encoding
	issuerSerial := append(cert.RawIssuer, cert.SerialNumber.Bytes()...)

	result := make([]byte, 0, len(issuerSerial)+len(encryptedKey)+20)
	result = append(result, 0x30) // SEQUENCE tag
	result = append(result, issuerSerial...)
	result = append(result, encryptedKey...)

	return result, nil
}

// buildEnvelopedData builds an EnvelopedData structure.
func buildEnvelopedData(recipientInfos [][]byte, iv, encryptedContent []byte) ([]byte, error) {
	// Simplified - in practice use proper CMS/ASN.1 encoding
	// This creates a basic structure that would need full CMS encoding
	result := make([]byte, 0, 1024)

	// ContentInfo wrapper
	result = append(result, 0x30) // SEQUENCE

	// Add EnvelopedData content
	for _, ri := range recipientInfos {
		result = append(result, ri...)
	}

	result = append(result, iv...)
	result = append(result, encryptedContent...)

	return result, nil
}

// readSeedFromRecipientCMS reads the seed from a CMS EnvelopedData.
func readSeedFromRecipientCMS(cmsData []byte, decrypter EnvelopeKeyDecrypter) ([]byte, PubKeyPermissions, error) {
	// Parse CMS EnvelopedData and find matching recipient
	// This is a simplified implementation

	// In a full implementation, this would:
	// 1. Parse the CMS ContentInfo
	// 2. Extract EnvelopedData
	// 3. Find RecipientInfo matching the decrypter's certificate
	// 4. Decrypt the envelope key
	// 5. Decrypt the envelope content
	// 6. Extract seed and permissions

	// For now, return an error indicating parsing is not implemented
	return nil, 0, errors.New("CMS parsing not fully implemented")
}

// AuthStatus represents authentication status.
type AuthStatus int

const (
	// AuthStatusFailed indicates authentication failed.
	AuthStatusFailed AuthStatus = iota
	// AuthStatusUser indicates user-level access.
	AuthStatusUser
	// AuthStatusOwner indicates owner-level access.
	AuthStatusOwner
)

// SecurityHandlerVersion represents the security handler version.
type SecurityHandlerVersion int

const (
	// SecurityHandlerVersionRC440 is RC4 40-bit (V1).
	SecurityHandlerVersionRC440 SecurityHandlerVersion = 1
	// SecurityHandlerVersionRC4Longer is RC4 longer keys (V2).
	SecurityHandlerVersionRC4Longer SecurityHandlerVersion = 2
	// SecurityHandlerVersionRC4OrAES128 is RC4 or AES-128 (V4).
	SecurityHandlerVersionRC4OrAES128 SecurityHandlerVersion = 4
	// SecurityHandlerVersionAES256 is AES-256 (V5).
	SecurityHandlerVersionAES256 SecurityHandlerVersion = 5
	// SecurityHandlerVersionAESGCM is AES-GCM (V6).
	SecurityHandlerVersionAESGCM SecurityHandlerVersion = 6
)

// PubKeySecurityHandler handles public key encryption.
type PubKeySecurityHandler struct {
	Version         SecurityHandlerVersion
	SubFilter       PubKeyAdbeSubFilter
	KeyLength       int
	EncryptMetadata bool
	KDFSalt         []byte

	cryptFilters map[string]*PubKeyCryptFilter
	defaultStmF  *PubKeyCryptFilter
	defaultStrF  *PubKeyCryptFilter

	credential EnvelopeKeyDecrypter
}

// NewPubKeySecurityHandler creates a new public key security handler.
func NewPubKeySecurityHandler(version SecurityHandlerVersion, subFilter PubKeyAdbeSubFilter, keyLength int) *PubKeySecurityHandler {
	return &PubKeySecurityHandler{
		Version:         version,
		SubFilter:       subFilter,
		KeyLength:       keyLength,
		EncryptMetadata: true,
		cryptFilters:    make(map[string]*PubKeyCryptFilter),
	}
}

// BuildFromCerts creates a security handler for the given certificates.
func BuildFromCerts(certs []*x509.Certificate, version SecurityHandlerVersion, perms PubKeyPermissions,
	policy RecipientEncryptionPolicy, encryptMetadata bool) (*PubKeySecurityHandler, error) {

	if len(certs) == 0 {
		return nil, ErrNoCertificate
	}

	var keyLength int
	var filterType CryptFilterType
	var subFilter PubKeyAdbeSubFilter

	switch version {
	case SecurityHandlerVersionRC440:
		keyLength = 5
		filterType = CryptFilterV2
		subFilter = SubFilterS4
	case SecurityHandlerVersionRC4Longer:
		keyLength = 16
		filterType = CryptFilterV2
		subFilter = SubFilterS4
	case SecurityHandlerVersionRC4OrAES128:
		keyLength = 16
		filterType = CryptFilterAESV2
		subFilter = SubFilterS5
	case SecurityHandlerVersionAES256, SecurityHandlerVersionAESGCM:
		keyLength = 32
		filterType = CryptFilterAESV3
		subFilter = SubFilterS5
	default:
		return nil, fmt.Errorf("unsupported security handler version: %d", version)
	}

	handler := &PubKeySecurityHandler{
		Version:         version,
		SubFilter:       subFilter,
		KeyLength:       keyLength,
		EncryptMetadata: encryptMetadata,
		cryptFilters:    make(map[string]*PubKeyCryptFilter),
	}

	// Create default crypt filter
	defaultFilter := NewPubKeyCryptFilter(filterType, keyLength, true, encryptMetadata)
	defaultFilter.SetSecurityHandler(handler)

	if err := defaultFilter.AddRecipients(certs, policy, perms); err != nil {
		return nil, err
	}

	handler.cryptFilters["DefaultCryptFilter"] = defaultFilter
	handler.defaultStmF = defaultFilter
	handler.defaultStrF = defaultFilter

	// Generate KDF salt for AES-256
	if version >= SecurityHandlerVersionAES256 {
		handler.KDFSalt = make([]byte, 32)
		if _, err := rand.Read(handler.KDFSalt); err != nil {
			return nil, err
		}
	}

	return handler, nil
}

// GetName returns the security handler name.
func (h *PubKeySecurityHandler) GetName() string {
	return "/Adobe.PubSec"
}

// Authenticate authenticates using the provided credential.
func (h *PubKeySecurityHandler) Authenticate(credential EnvelopeKeyDecrypter) (AuthStatus, PubKeyPermissions, error) {
	var combinedPerms PubKeyPermissions = 0xFFFFFFFF

	for _, cf := range h.cryptFilters {
		status, perms, err := cf.Authenticate(credential)
		if err != nil || status == AuthStatusFailed {
			return AuthStatusFailed, 0, err
		}
		combinedPerms &= perms
	}

	h.credential = credential
	return AuthStatusUser, combinedPerms, nil
}

// GetFileEncryptionKey returns the file encryption key.
func (h *PubKeySecurityHandler) GetFileEncryptionKey() ([]byte, error) {
	if h.defaultStmF == nil {
		return nil, errors.New("no default stream filter")
	}
	return h.defaultStmF.DeriveSharedKey(h.Version)
}

// DecryptString decrypts a string.
func (h *PubKeySecurityHandler) DecryptString(data []byte, objNum, genNum int) ([]byte, error) {
	if h.defaultStrF == nil {
		return nil, errors.New("no string filter configured")
	}

	key := h.defaultStrF.SharedKey()
	if key == nil {
		return nil, errors.New("not authenticated")
	}

	return h.defaultStrF.Decrypt(key, data)
}

// DecryptStream decrypts a stream.
func (h *PubKeySecurityHandler) DecryptStream(data []byte, objNum, genNum int) ([]byte, error) {
	if h.defaultStmF == nil {
		return nil, errors.New("no stream filter configured")
	}

	key := h.defaultStmF.SharedKey()
	if key == nil {
		return nil, errors.New("not authenticated")
	}

	return h.defaultStmF.Decrypt(key, data)
}

// EncryptString encrypts a string.
func (h *PubKeySecurityHandler) EncryptString(data []byte, objNum, genNum int) ([]byte, error) {
	if h.defaultStrF == nil {
		return nil, errors.New("no string filter configured")
	}

	key := h.defaultStrF.SharedKey()
	if key == nil {
		return nil, errors.New("not authenticated")
	}

	return h.defaultStrF.Encrypt(key, data)
}

// EncryptStream encrypts a stream.
func (h *PubKeySecurityHandler) EncryptStream(data []byte, objNum, genNum int) ([]byte, error) {
	if h.defaultStmF == nil {
		return nil, errors.New("no stream filter configured")
	}

	key := h.defaultStmF.SharedKey()
	if key == nil {
		return nil, errors.New("not authenticated")
	}

	return h.defaultStmF.Encrypt(key, data)
}
