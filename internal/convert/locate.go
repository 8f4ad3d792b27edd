package convert

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"

	"github.com/google/shlex"

	"github.com/M4rkoza7/AceCombatExpansionSystem/pkg/types"
)

// ExecutableNames are tried, in order, when no converter is configured.
var ExecutableNames = []string{"UAssetGUI.exe", "UAssetGUI"}

// Locate resolves the converter command line once at startup.
//
// A configured value is split like a shell would ("wine /opt/UAssetGUI.exe")
// and its first word must be an existing file or found on PATH. Without one,
// ExecutableNames are looked up in each of dirs and then on PATH. The error
// wraps types.ErrConverterNotFound when nothing matches.
func Locate(configured string, dirs ...string) ([]string, error) {
	if configured != "" {
		words, err := shlex.Split(configured)
		if err != nil {
			return nil, fmt.Errorf("parsing converter command %q: %w", configured, err)
		}
		if len(words) == 0 {
			return nil, fmt.Errorf("%w: empty converter command", types.ErrConverterNotFound)
		}
		exe, err := findExecutable(words[0])
		if err != nil {
			return nil, fmt.Errorf("%w: %s", types.ErrConverterNotFound, words[0])
		}
		words[0] = exe
		return words, nil
	}

	for _, dir := range dirs {
		for _, name := range ExecutableNames {
			p := filepath.Join(dir, name)
			if isFile(p) {
				return []string{p}, nil
			}
		}
	}
	for _, name := range ExecutableNames {
		if p, err := exec.LookPath(name); err == nil {
			return []string{p}, nil
		}
	}
	return nil, fmt.Errorf("%w: tried %v on PATH and in %v", types.ErrConverterNotFound, ExecutableNames, dirs)
}

func findExecutable(word string) (string, error) {
	if isFile(word) {
		return word, nil
	}
	p, err := exec.LookPath(word)
	if err != nil {
		return "", err
	}
	return p, nil
}

func isFile(p string) bool {
	info, err := os.Stat(p)
	return err == nil && !info.IsDir()
}
