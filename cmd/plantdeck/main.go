package main

import (
	"os"
	"strings"

	"plantdeck/internal/cli"
)

func isEquipmentID(s string) bool {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "eq-") {
		return false
	}
	// Keep it permissive; IDs are generated but users may paste variants.
	return len(s) > len("eq-")
}

func rewriteDirectEquipmentLookupArgs(argv []string) []string {
	// Convenience: `plantdeck <equipment-id>` works like `plantdeck equipment show <equipment-id>`.
	//
	// Cobra treats the first non-flag token as a subcommand, so we rewrite argv before parsing.
	//
	// IMPORTANT: Users often pass persistent flags first (e.g. `plantdeck --dir ... <equipment-id>`),
	// so we must find the first positional token, not just argv[1].
	if len(argv) < 2 {
		return argv
	}

	// Minimal persistent-flag awareness. If we see flags we don't recognize, we skip them
	// (and do NOT try to skip their value) to avoid accidentally consuming the equipment-id.
	valueFlags := map[string]bool{
		"--dir":       true,
		"--workspace": true,
		"--actor":     true,
	}
	boolFlags := map[string]bool{
		"--pretty": true,
	}

	for i := 1; i < len(argv); i++ {
		a := strings.TrimSpace(argv[i])
		if a == "" {
			continue
		}
		if a == "--" {
			// Stop flag parsing; next token (if any) is the first positional.
			if i+1 < len(argv) && isEquipmentID(argv[i+1]) {
				out := make([]string, 0, len(argv)+2)
				out = append(out, argv[:i+1]...)
				out = append(out, "equipment", "show")
				out = append(out, argv[i+1:]...)
				return out
			}
			return argv
		}

		if strings.HasPrefix(a, "-") {
			// --flag=value form
			if strings.Contains(a, "=") {
				continue
			}
			if boolFlags[a] {
				continue
			}
			if valueFlags[a] {
				i++ // skip value if present
				continue
			}
			continue
		}

		// First positional token.
		if isEquipmentID(a) {
			out := make([]string, 0, len(argv)+2)
			out = append(out, argv[:i]...)
			out = append(out, "equipment", "show")
			out = append(out, argv[i:]...)
			return out
		}
		return argv
	}

	return argv
}

func main() {
	os.Args = rewriteDirectEquipmentLookupArgs(os.Args)

	cmd := cli.NewRootCmd()
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
