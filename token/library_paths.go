package token

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
)

// Common errors for library path handling.
var (
	ErrLibraryNotFound      = errors.New("PKCS#11 library not found")
	ErrLibraryPathRejected  = errors.New("PKCS#11 library path rejected")
	ErrNoLibrariesDetected  = errors.New("no PKCS#11 libraries detected")
	ErrUnsupportedPlatform  = errors.New("unsupported platform")
	ErrInvalidLibraryVendor = errors.New("unknown CA library vendor")
)

// CALibrary describes one certificate authority's PKCS#11 module and its
// installation path on each supported platform.
type CALibrary struct {
	// Name is the CA vendor name shown to users.
	Name string

	// DarwinPath, WindowsPath and LinuxPath are the fixed installation
	// locations of the vendor's module.
	DarwinPath  string
	WindowsPath string
	LinuxPath   string
}

// PathForOS returns the module path for the given GOOS value.
func (l CALibrary) PathForOS(goos string) string {
	switch goos {
	case "darwin":
		return l.DarwinPath
	case "windows":
		return l.WindowsPath
	case "linux":
		return l.LinuxPath
	default:
		return ""
	}
}

// Path returns the module path for the running platform.
func (l CALibrary) Path() string {
	return l.PathForOS(runtime.GOOS)
}

// KnownLibraries returns the registry of supported CA modules in probe
// order. OpenSC is last as the generic fallback for development tokens.
func KnownLibraries() []CALibrary {
	return []CALibrary{
		{
			Name:        "VNPT-CA",
			DarwinPath:  "/Library/vnpt-ca/lib/libcryptoki.dylib",
			WindowsPath: `C:\vnpt-ca\cryptoki.dll`,
			LinuxPath:   "/usr/lib/vnpt-ca/libcryptoki.so",
		},
		{
			Name:        "Viettel-CA",
			DarwinPath:  "/usr/local/lib/viettel-ca_v6.dylib",
			WindowsPath: `C:\Viettel-CA\pkcs11.dll`,
			LinuxPath:   "/usr/lib/viettel-ca/libpkcs11.so",
		},
		{
			Name:        "FPT-CA",
			DarwinPath:  "/Library/FPT/libpkcs11.dylib",
			WindowsPath: `C:\FPT-CA\pkcs11.dll`,
			LinuxPath:   "/usr/lib/fpt-ca/libpkcs11.so",
		},
		{
			Name:        "OpenSC",
			DarwinPath:  "/usr/local/lib/opensc-pkcs11.so",
			WindowsPath: `C:\Program Files\OpenSC Project\OpenSC\pkcs11\opensc-pkcs11.dll`,
			LinuxPath:   "/usr/lib/x86_64-linux-gnu/opensc-pkcs11.so",
		},
	}
}

// DetectedLibrary is a CA module found on disk.
type DetectedLibrary struct {
	Name string `json:"name"`
	Path string `json:"path"`
}

// DetectLibraries probes the registry paths for the running platform and
// returns every module present on disk, in registry order.
func DetectLibraries() []DetectedLibrary {
	var found []DetectedLibrary
	for _, lib := range KnownLibraries() {
		path := lib.Path()
		if path == "" {
			continue
		}
		if info, err := os.Stat(path); err == nil && !info.IsDir() {
			found = append(found, DetectedLibrary{Name: lib.Name, Path: path})
		}
	}
	return found
}

// LibraryNameForPath returns the registry vendor name for a module path, or
// "Unknown" when the path is not in the registry.
func LibraryNameForPath(path string) string {
	for _, lib := range KnownLibraries() {
		if samePath(lib.Path(), path) {
			return lib.Name
		}
	}
	return "Unknown"
}

// allowedPrefixesForOS returns the directory prefixes a module path must
// live under before it may be loaded.
func allowedPrefixesForOS(goos string) []string {
	switch goos {
	case "darwin":
		return []string{"/Library/", "/usr/local/lib/"}
	case "windows":
		return []string{
			`C:\Program Files\`,
			`C:\Program Files (x86)\`,
			`C:\vnpt-ca\`,
			`C:\Viettel-CA\`,
			`C:\FPT-CA\`,
		}
	case "linux":
		return []string{"/usr/lib/", "/usr/local/lib/", "/opt/"}
	default:
		return nil
	}
}

// allowedExtensionsForOS returns acceptable shared-library suffixes.
func allowedExtensionsForOS(goos string) []string {
	switch goos {
	case "darwin":
		return []string{".dylib", ".so"}
	case "windows":
		return []string{".dll"}
	case "linux":
		return []string{".so"}
	default:
		return nil
	}
}

// ValidateLibraryPath checks that a module path is safe to load: it must
// carry the platform shared-library extension and resolve under one of the
// allowed installation prefixes. The checks run before any load attempt.
// Returns the cleaned path to hand to the module loader.
func ValidateLibraryPath(path string) (string, error) {
	return validateLibraryPathForOS(path, runtime.GOOS)
}

func validateLibraryPathForOS(path, goos string) (string, error) {
	if path == "" {
		return "", fmt.Errorf("%w: empty path", ErrLibraryPathRejected)
	}

	prefixes := allowedPrefixesForOS(goos)
	extensions := allowedExtensionsForOS(goos)
	if len(prefixes) == 0 || len(extensions) == 0 {
		return "", fmt.Errorf("%w: %s", ErrUnsupportedPlatform, goos)
	}

	cleaned := filepath.Clean(path)

	if !hasAllowedExtension(cleaned, extensions, goos) {
		return "", fmt.Errorf("%w: %s does not have a shared library extension", ErrLibraryPathRejected, cleaned)
	}
	if !underAllowedPrefix(cleaned, prefixes, goos) {
		return "", fmt.Errorf("%w: %s is outside the allowed library directories", ErrLibraryPathRejected, cleaned)
	}

	// Resolve symlinks only when validating for the running platform; the
	// resolved target must still live under an allowed prefix.
	if goos == runtime.GOOS {
		info, err := os.Stat(cleaned)
		if err != nil {
			return "", fmt.Errorf("%w at %s", ErrLibraryNotFound, cleaned)
		}
		if info.IsDir() {
			return "", fmt.Errorf("%w: %s is a directory", ErrLibraryPathRejected, cleaned)
		}
		resolved, err := filepath.EvalSymlinks(cleaned)
		if err != nil {
			return "", fmt.Errorf("%w at %s", ErrLibraryNotFound, cleaned)
		}
		if !underAllowedPrefix(resolved, prefixes, goos) {
			return "", fmt.Errorf("%w: %s resolves outside the allowed library directories", ErrLibraryPathRejected, cleaned)
		}
	}

	return cleaned, nil
}

func hasAllowedExtension(path string, extensions []string, goos string) bool {
	name := path
	if goos == "windows" {
		name = strings.ToLower(name)
	}
	for _, ext := range extensions {
		if strings.HasSuffix(name, ext) {
			return true
		}
	}
	return false
}

func underAllowedPrefix(path string, prefixes []string, goos string) bool {
	candidate := path
	if goos == "windows" {
		candidate = strings.ToLower(candidate)
	}
	for _, prefix := range prefixes {
		p := prefix
		if goos == "windows" {
			p = strings.ToLower(p)
		}
		if strings.HasPrefix(candidate, p) {
			return true
		}
	}
	return false
}

func samePath(a, b string) bool {
	if runtime.GOOS == "windows" {
		return strings.EqualFold(filepath.Clean(a), filepath.Clean(b))
	}
	return filepath.Clean(a) == filepath.Clean(b)
}
