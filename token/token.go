// Package token manages PKCS#11 sessions with Vietnamese CA USB tokens:
// module loading against a fixed vendor allowlist, slot discovery, PIN
// login, certificate and chain retrieval, and raw RSA signing.
package token

import (
	"bytes"
	"crypto/sha256"
	"crypto/x509"
	"crypto/x509/pkix"
	"encoding/asn1"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/effective-security/xlog"
	"github.com/jonboulle/clockwork"
	"github.com/miekg/pkcs11"
)

var logger = xlog.NewPackageLogger("github.com/georgepadayatti/vnsign", "token")

// Common errors for token session management.
var (
	ErrModuleLoadFailed    = errors.New("failed to load PKCS#11 module")
	ErrModuleInitFailed    = errors.New("failed to initialize PKCS#11 module")
	ErrNotInitialized      = errors.New("token manager is not initialized")
	ErrNotLoggedIn         = errors.New("not logged in to token")
	ErrTokenNotFound       = errors.New("no token found")
	ErrPrivateKeyNotFound  = errors.New("no signing key found on token")
	ErrCertificateNotFound = errors.New("no certificate found on token")
	ErrLoginFailed         = errors.New("PIN authentication failed")
	ErrSigningFailed       = errors.New("token signing operation failed")
)

// maxChainDepth bounds issuer chain construction from token certificates.
const maxChainDepth = 10

// reinitSettleDelay gives a vendor driver time to release the USB device
// between finalizing one module and loading another.
const reinitSettleDelay = 200 * time.Millisecond

// SessionState is the token manager lifecycle state.
type SessionState int

const (
	// StateDisconnected means no module is loaded.
	StateDisconnected SessionState = iota
	// StateDetecting means library detection is in progress.
	StateDetecting
	// StateLibraryFound means at least one CA module exists on disk.
	StateLibraryFound
	// StateInitializing means a module is being loaded.
	StateInitializing
	// StateReady means the module is initialized and slots can be listed.
	StateReady
	// StateLoggingIn means a PIN login is in progress.
	StateLoggingIn
	// StateLoggedIn means an authenticated session is open.
	StateLoggedIn
	// StateError means the module failed to load or initialize.
	StateError
)

// String returns the state name.
func (s SessionState) String() string {
	switch s {
	case StateDisconnected:
		return "disconnected"
	case StateDetecting:
		return "detecting"
	case StateLibraryFound:
		return "library_found"
	case StateInitializing:
		return "initializing"
	case StateReady:
		return "ready"
	case StateLoggingIn:
		return "logging_in"
	case StateLoggedIn:
		return "logged_in"
	case StateError:
		return "error"
	default:
		return fmt.Sprintf("state_%d", int(s))
	}
}

// TokenInfo describes a token present in a slot.
type TokenInfo struct {
	SlotID       uint   `json:"slot_id"`
	Label        string `json:"label"`
	Manufacturer string `json:"manufacturer"`
	Model        string `json:"model"`
	SerialNumber string `json:"serial_number"`
}

// Snapshot is a point-in-time view of the manager state.
type Snapshot struct {
	Initialized       bool              `json:"initialized"`
	LoggedIn          bool              `json:"logged_in"`
	State             string            `json:"state"`
	LibraryPath       string            `json:"library_path,omitempty"`
	Certificate       *CertificateInfo  `json:"certificate,omitempty"`
	DetectedLibraries []DetectedLibrary `json:"detected_libraries,omitempty"`
}

// tokenCert pairs a parsed certificate with its PKCS#11 CKA_ID.
type tokenCert struct {
	cert *x509.Certificate
	id   []byte
}

// Manager owns one PKCS#11 module session. All methods are safe for
// concurrent use; hardware calls are serialized internally.
type Manager struct {
	mu    sync.Mutex
	clock clockwork.Clock

	state       SessionState
	lastErr     error
	libraryPath string

	ctx     *pkcs11.Ctx
	slotID  uint
	session pkcs11.SessionHandle

	keyHandle pkcs11.ObjectHandle
	keyID     []byte
	cert      *x509.Certificate
	chain     []*x509.Certificate
	certInfo  *CertificateInfo
}

// NewManager creates a manager in the disconnected state.
func NewManager() *Manager {
	return &Manager{
		clock: clockwork.NewRealClock(),
		state: StateDisconnected,
	}
}

// WithClock replaces the clock. Used by tests.
func (m *Manager) WithClock(clock clockwork.Clock) *Manager {
	m.clock = clock
	return m
}

// State returns the current lifecycle state.
func (m *Manager) State() SessionState {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

// LastError returns the error that moved the manager into StateError.
func (m *Manager) LastError() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.lastErr
}

// LibraryPath returns the path of the loaded module, or "".
func (m *Manager) LibraryPath() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.libraryPath
}

// Detect probes the CA registry for installed modules. It never touches
// the loaded module.
func (m *Manager) Detect() []DetectedLibrary {
	m.mu.Lock()
	if m.state == StateDisconnected {
		m.state = StateDetecting
	}
	m.mu.Unlock()

	libs := DetectLibraries()

	m.mu.Lock()
	if m.state == StateDetecting {
		if len(libs) > 0 {
			m.state = StateLibraryFound
		} else {
			m.state = StateDisconnected
		}
	}
	m.mu.Unlock()

	return libs
}

// Open validates a module path against the allowlist, loads it and
// initializes the Cryptoki library. Opening the already-loaded path is a
// no-op. Opening a different path finalizes the old module first and waits
// a short settle delay so the vendor driver releases the device.
func (m *Manager) Open(libraryPath string) error {
	validated, err := ValidateLibraryPath(libraryPath)
	if err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if m.ctx != nil {
		if samePath(m.libraryPath, validated) {
			return nil
		}
		m.closeLocked()
		m.clock.Sleep(reinitSettleDelay)
	}

	m.state = StateInitializing
	logger.KV(xlog.DEBUG, "op", "open", "library", validated, "vendor", LibraryNameForPath(validated))

	ctx := pkcs11.New(validated)
	if ctx == nil {
		err := diagnoseModuleLoad(validated)
		m.state = StateError
		m.lastErr = err
		return err
	}

	if err := ctx.Initialize(); err != nil {
		var p11Err pkcs11.Error
		if !errors.As(err, &p11Err) || p11Err != pkcs11.CKR_CRYPTOKI_ALREADY_INITIALIZED {
			ctx.Destroy()
			wrapped := fmt.Errorf("%w: %v", ErrModuleInitFailed, err)
			m.state = StateError
			m.lastErr = wrapped
			return wrapped
		}
	}

	m.ctx = ctx
	m.libraryPath = validated
	m.state = StateReady
	m.lastErr = nil
	logger.KV(xlog.INFO, "op", "open", "library", validated, "state", m.state.String())
	return nil
}

// Close logs out if needed, finalizes the module and returns the manager
// to the disconnected state.
func (m *Manager) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closeLocked()
	return nil
}

func (m *Manager) closeLocked() {
	if m.ctx == nil {
		m.state = StateDisconnected
		return
	}
	if m.session != 0 {
		m.logoutLocked()
	}
	if err := m.ctx.Finalize(); err != nil {
		logger.KV(xlog.WARNING, "op", "close", "reason", "finalize failed", "err", err.Error())
	}
	m.ctx.Destroy()
	m.ctx = nil
	m.libraryPath = ""
	m.state = StateDisconnected
	logger.KV(xlog.DEBUG, "op", "close", "state", m.state.String())
}

// ListTokens enumerates tokens currently present. Per-slot failures are
// collected and surfaced only when every slot fails.
func (m *Manager) ListTokens() ([]TokenInfo, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.ctx == nil {
		return nil, ErrNotInitialized
	}

	slots, err := m.ctx.GetSlotList(true)
	if err != nil {
		return nil, fmt.Errorf("%w: slot enumeration failed: %v", ErrTokenNotFound, err)
	}
	if len(slots) == 0 {
		return nil, fmt.Errorf("%w: no slot holds a token", ErrTokenNotFound)
	}

	var infos []TokenInfo
	var slotErrs []error
	for _, slot := range slots {
		ti, err := m.ctx.GetTokenInfo(slot)
		if err != nil {
			slotErrs = append(slotErrs, fmt.Errorf("slot %d: %v", slot, err))
			continue
		}
		infos = append(infos, TokenInfo{
			SlotID:       slot,
			Label:        trimPKCS11String(ti.Label),
			Manufacturer: trimPKCS11String(ti.ManufacturerID),
			Model:        trimPKCS11String(ti.Model),
			SerialNumber: trimPKCS11String(ti.SerialNumber),
		})
	}

	if len(infos) == 0 {
		return nil, fmt.Errorf("%w: %v", ErrTokenNotFound, errors.Join(slotErrs...))
	}
	return infos, nil
}

// Login authenticates against the token in the given slot. The PIN buffer
// is zeroed before Login returns, on success and on failure. Logging in
// while already logged in re-authenticates cleanly.
func (m *Manager) Login(slotID uint, pin []byte) error {
	defer WipePIN(pin)

	if err := ValidatePIN(pin); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if m.ctx == nil {
		return ErrNotInitialized
	}
	if m.state == StateLoggedIn {
		m.logoutLocked()
	}

	m.state = StateLoggingIn
	fail := func(err error) error {
		m.state = StateReady
		return err
	}

	slots, err := m.ctx.GetSlotList(true)
	if err != nil {
		return fail(fmt.Errorf("%w: slot enumeration failed: %v", ErrTokenNotFound, err))
	}
	if !containsSlot(slots, slotID) {
		return fail(fmt.Errorf("%w in slot %d", ErrTokenNotFound, slotID))
	}

	session, err := m.ctx.OpenSession(slotID, pkcs11.CKF_SERIAL_SESSION|pkcs11.CKF_RW_SESSION)
	if err != nil {
		return fail(fmt.Errorf("%w: cannot open session on slot %d: %v", ErrTokenNotFound, slotID, err))
	}

	if err := m.ctx.Login(session, pkcs11.CKU_USER, string(pin)); err != nil {
		var p11Err pkcs11.Error
		if errors.As(err, &p11Err) && p11Err == pkcs11.CKR_USER_ALREADY_LOGGED_IN {
			// A previous process left the token authenticated; reuse it.
		} else {
			_ = m.ctx.CloseSession(session)
			return fail(fmt.Errorf("%w: %v", ErrLoginFailed, err))
		}
	}

	keyHandle, keyID, err := m.findPrivateKey(session)
	if err != nil {
		_ = m.ctx.Logout(session)
		_ = m.ctx.CloseSession(session)
		return fail(err)
	}

	certs, err := m.loadCertificates(session)
	if err != nil {
		_ = m.ctx.Logout(session)
		_ = m.ctx.CloseSession(session)
		return fail(err)
	}

	leaf := selectEndEntity(certs, keyID)
	chain := buildChain(leaf, certs)

	info, err := NewCertificateInfo(leaf)
	if err != nil {
		logger.KV(xlog.WARNING, "op", "login", "reason", "certificate info unavailable", "err", err.Error())
	}

	m.slotID = slotID
	m.session = session
	m.keyHandle = keyHandle
	m.keyID = keyID
	m.cert = leaf
	m.chain = chain
	m.certInfo = info
	m.state = StateLoggedIn

	logger.KV(xlog.INFO, "op", "login", "slot", slotID, "subject", CommonNameOf(leaf.RawSubject), "chain_len", len(chain))
	return nil
}

// Logout ends the authenticated session and drops cached key and
// certificate material. The module stays loaded.
func (m *Manager) Logout() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.ctx == nil {
		return ErrNotInitialized
	}
	m.logoutLocked()
	return nil
}

func (m *Manager) logoutLocked() {
	if m.session != 0 {
		if err := m.ctx.Logout(m.session); err != nil {
			var p11Err pkcs11.Error
			if !errors.As(err, &p11Err) || p11Err != pkcs11.CKR_USER_NOT_LOGGED_IN {
				logger.KV(xlog.WARNING, "op", "logout", "err", err.Error())
			}
		}
		_ = m.ctx.CloseSession(m.session)
	}
	m.session = 0
	m.keyHandle = 0
	m.keyID = nil
	m.cert = nil
	m.chain = nil
	m.certInfo = nil
	if m.state == StateLoggedIn || m.state == StateLoggingIn {
		m.state = StateReady
	}
}

// Certificate returns the end-entity signing certificate, or nil when not
// logged in.
func (m *Manager) Certificate() *x509.Certificate {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.cert
}

// CertificateChain returns the issuer chain, end-entity excluded, ordered
// leaf-issuer first.
func (m *Manager) CertificateChain() []*x509.Certificate {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.chain
}

// Info returns the cached certificate description, or nil.
func (m *Manager) Info() *CertificateInfo {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.certInfo
}

// Status reports the manager snapshot. When no module is loaded the
// snapshot carries the detected libraries instead, so callers can offer
// module selection.
func (m *Manager) Status() Snapshot {
	m.mu.Lock()
	ctxLoaded := m.ctx != nil
	snap := Snapshot{
		Initialized: ctxLoaded,
		LoggedIn:    m.state == StateLoggedIn,
		State:       m.state.String(),
		LibraryPath: m.libraryPath,
		Certificate: m.certInfo,
	}
	m.mu.Unlock()

	if !ctxLoaded {
		snap.DetectedLibraries = DetectLibraries()
	}
	return snap
}

// Sign signs data with CKM_SHA256_RSA_PKCS: the token hashes internally
// and applies PKCS#1 v1.5 padding.
func (m *Manager) Sign(data []byte) ([]byte, error) {
	return m.sign(data, pkcs11.CKM_SHA256_RSA_PKCS)
}

// SignDigest signs a precomputed SHA-256 digest with CKM_RSA_PKCS. The
// digest is wrapped in a DigestInfo structure before padding.
func (m *Manager) SignDigest(digest []byte) ([]byte, error) {
	if len(digest) != sha256.Size {
		return nil, fmt.Errorf("%w: digest must be %d bytes, got %d", ErrSigningFailed, sha256.Size, len(digest))
	}
	wrapped, err := wrapDigestInfoSHA256(digest)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSigningFailed, err)
	}
	return m.sign(wrapped, pkcs11.CKM_RSA_PKCS)
}

func (m *Manager) sign(data []byte, mechanism uint) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.ctx == nil {
		return nil, ErrNotInitialized
	}
	if m.state != StateLoggedIn {
		return nil, ErrNotLoggedIn
	}

	mech := []*pkcs11.Mechanism{pkcs11.NewMechanism(mechanism, nil)}
	if err := m.ctx.SignInit(m.session, mech, m.keyHandle); err != nil {
		return nil, fmt.Errorf("%w: SignInit: %v", ErrSigningFailed, err)
	}
	sig, err := m.ctx.Sign(m.session, data)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSigningFailed, err)
	}
	return sig, nil
}

// findPrivateKey locates a private key with the sign capability.
func (m *Manager) findPrivateKey(session pkcs11.SessionHandle) (pkcs11.ObjectHandle, []byte, error) {
	template := []*pkcs11.Attribute{
		pkcs11.NewAttribute(pkcs11.CKA_CLASS, pkcs11.CKO_PRIVATE_KEY),
		pkcs11.NewAttribute(pkcs11.CKA_SIGN, true),
	}
	handles, err := m.findObjects(session, template, 16)
	if err != nil {
		return 0, nil, fmt.Errorf("%w: %v", ErrPrivateKeyNotFound, err)
	}
	if len(handles) == 0 {
		return 0, nil, ErrPrivateKeyNotFound
	}

	handle := handles[0]
	var keyID []byte
	attrs, err := m.ctx.GetAttributeValue(session, handle, []*pkcs11.Attribute{
		pkcs11.NewAttribute(pkcs11.CKA_ID, nil),
	})
	if err == nil && len(attrs) > 0 {
		keyID = attrs[0].Value
	}
	return handle, keyID, nil
}

// loadCertificates pulls every X.509 certificate stored on the token.
func (m *Manager) loadCertificates(session pkcs11.SessionHandle) ([]tokenCert, error) {
	template := []*pkcs11.Attribute{
		pkcs11.NewAttribute(pkcs11.CKA_CLASS, pkcs11.CKO_CERTIFICATE),
		pkcs11.NewAttribute(pkcs11.CKA_CERTIFICATE_TYPE, pkcs11.CKC_X_509),
	}
	handles, err := m.findObjects(session, template, 32)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCertificateNotFound, err)
	}

	var certs []tokenCert
	for _, handle := range handles {
		attrs, err := m.ctx.GetAttributeValue(session, handle, []*pkcs11.Attribute{
			pkcs11.NewAttribute(pkcs11.CKA_VALUE, nil),
			pkcs11.NewAttribute(pkcs11.CKA_ID, nil),
		})
		if err != nil || len(attrs) == 0 {
			continue
		}
		cert, err := x509.ParseCertificate(attrs[0].Value)
		if err != nil {
			logger.KV(xlog.DEBUG, "op", "login", "reason", "skipping unparsable certificate", "err", err.Error())
			continue
		}
		tc := tokenCert{cert: cert}
		if len(attrs) > 1 {
			tc.id = attrs[1].Value
		}
		certs = append(certs, tc)
	}

	if len(certs) == 0 {
		return nil, ErrCertificateNotFound
	}
	return certs, nil
}

func (m *Manager) findObjects(session pkcs11.SessionHandle, template []*pkcs11.Attribute, max int) ([]pkcs11.ObjectHandle, error) {
	if err := m.ctx.FindObjectsInit(session, template); err != nil {
		return nil, err
	}
	handles, _, err := m.ctx.FindObjects(session, max)
	finalErr := m.ctx.FindObjectsFinal(session)
	if err != nil {
		return nil, err
	}
	if finalErr != nil {
		return nil, finalErr
	}
	return handles, nil
}

// selectEndEntity picks the signing certificate among the token's
// certificates: the one sharing the private key's CKA_ID when available,
// otherwise the first certificate that issues no other certificate on the
// token.
func selectEndEntity(certs []tokenCert, keyID []byte) *x509.Certificate {
	if len(keyID) > 0 {
		for _, tc := range certs {
			if bytes.Equal(tc.id, keyID) {
				return tc.cert
			}
		}
	}
	for _, tc := range certs {
		isIssuer := false
		for _, other := range certs {
			if other.cert == tc.cert {
				continue
			}
			if bytes.Equal(other.cert.RawIssuer, tc.cert.RawSubject) {
				isIssuer = true
				break
			}
		}
		if !isIssuer {
			return tc.cert
		}
	}
	return certs[0].cert
}

// buildChain walks issuer links among the token's certificates, leaf
// excluded, stopping at a self-signed certificate, a missing issuer, or
// the depth cap.
func buildChain(leaf *x509.Certificate, certs []tokenCert) []*x509.Certificate {
	var chain []*x509.Certificate
	current := leaf
	for depth := 0; depth < maxChainDepth; depth++ {
		if bytes.Equal(current.RawSubject, current.RawIssuer) {
			break
		}
		var issuer *x509.Certificate
		for _, tc := range certs {
			if tc.cert == current {
				continue
			}
			if bytes.Equal(tc.cert.RawSubject, current.RawIssuer) {
				issuer = tc.cert
				break
			}
		}
		if issuer == nil {
			break
		}
		chain = append(chain, issuer)
		current = issuer
	}
	return chain
}

func containsSlot(slots []uint, slotID uint) bool {
	for _, s := range slots {
		if s == slotID {
			return true
		}
	}
	return false
}

// trimPKCS11String removes the space and NUL padding PKCS#11 fixed-width
// fields carry.
func trimPKCS11String(s string) string {
	return strings.TrimRight(s, " \x00")
}

type digestInfo struct {
	Algorithm pkix.AlgorithmIdentifier
	Digest    []byte
}

var oidDigestSHA256 = asn1.ObjectIdentifier{2, 16, 840, 1, 101, 3, 4, 2, 1}

// wrapDigestInfoSHA256 wraps a raw SHA-256 digest in the DigestInfo
// structure PKCS#1 v1.5 signatures require when the token does not hash.
func wrapDigestInfoSHA256(digest []byte) ([]byte, error) {
	return asn1.Marshal(digestInfo{
		Algorithm: pkix.AlgorithmIdentifier{
			Algorithm:  oidDigestSHA256,
			Parameters: asn1.NullRawValue,
		},
		Digest: digest,
	})
}
