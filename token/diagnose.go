package token

import (
	"debug/elf"
	"debug/macho"
	"debug/pe"
	"fmt"
	"runtime"
)

// moduleArchitecture reads the binary header of a shared library and
// returns the CPU architecture it was built for, in GOARCH terms.
// Returns "" when the format is unrecognized.
func moduleArchitecture(path string) string {
	switch runtime.GOOS {
	case "darwin":
		if f, err := macho.Open(path); err == nil {
			defer f.Close()
			switch f.Cpu {
			case macho.CpuAmd64:
				return "amd64"
			case macho.CpuArm64:
				return "arm64"
			case macho.Cpu386:
				return "386"
			}
		}
		// Universal binaries carry every slice; no mismatch possible.
		if f, err := macho.OpenFat(path); err == nil {
			f.Close()
			return runtime.GOARCH
		}
	case "windows":
		if f, err := pe.Open(path); err == nil {
			defer f.Close()
			switch f.Machine {
			case pe.IMAGE_FILE_MACHINE_AMD64:
				return "amd64"
			case pe.IMAGE_FILE_MACHINE_ARM64:
				return "arm64"
			case pe.IMAGE_FILE_MACHINE_I386:
				return "386"
			}
		}
	default:
		if f, err := elf.Open(path); err == nil {
			defer f.Close()
			switch f.Machine {
			case elf.EM_X86_64:
				return "amd64"
			case elf.EM_AARCH64:
				return "arm64"
			case elf.EM_386:
				return "386"
			}
		}
	}
	return ""
}

// diagnoseModuleLoad explains a module load failure. The common field
// failure is an architecture clash between a vendor library built for one
// CPU and a process running on another; the loader reports nothing useful,
// so the header is inspected directly.
func diagnoseModuleLoad(path string) error {
	have := moduleArchitecture(path)
	if have != "" && have != runtime.GOARCH {
		return fmt.Errorf("%w: %s is built for %q but this process needs %q",
			ErrModuleLoadFailed, path, have, runtime.GOARCH)
	}
	return fmt.Errorf("%w: %s", ErrModuleLoadFailed, path)
}
