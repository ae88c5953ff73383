// Package detect probes a project root for ecosystem markers and produces
// the detection record planning consumes.
package detect

import (
	"path/filepath"

	"github.com/caio-ramos/envdoctor/pkg/logging"
	"github.com/caio-ramos/envdoctor/pkg/types"
)

var nodeLockfiles = []string{
	"package-lock.json",
	"pnpm-lock.yaml",
	"yarn.lock",
	"bun.lockb",
}

var composeFiles = []string{
	"docker-compose.yml",
	"docker-compose.yaml",
	"compose.yml",
	"compose.yaml",
}

// Detect probes workDir and returns the resolved detection record. Probes
// are plain existence checks; nothing here mutates state.
func Detect(fsys types.FS, workDir string) types.Detection {
	logger := logging.GetLogger("detect")

	exists := func(name string) bool {
		_, err := fsys.Stat(filepath.Join(workDir, name))
		return err == nil
	}

	det := types.Detection{}

	if exists("package.json") {
		det.HasNode = true
		for _, lock := range nodeLockfiles {
			if exists(lock) {
				det.NodeLockfile = lock
				break
			}
		}
		for _, vf := range []string{".nvmrc", ".node-version"} {
			if exists(vf) {
				det.NodeVersionFile = vf
				break
			}
		}
	}

	if exists("pyproject.toml") || exists("requirements.txt") || exists("setup.py") {
		det.HasPython = true
		switch {
		case exists("uv.lock"):
			det.PythonManager = "uv"
		case exists("poetry.lock"):
			det.PythonManager = "poetry"
		default:
			det.PythonManager = "pip"
		}
	}

	if exists("Dockerfile") {
		det.HasDocker = true
	}
	for _, cf := range composeFiles {
		if exists(cf) {
			det.HasDocker = true
			det.ComposeFile = cf
			break
		}
	}

	det.HasEnvExample = exists(".env.example")
	det.MissingEnv = det.HasEnvExample && !exists(".env")

	logger.Debug().
		Bool("node", det.HasNode).
		Bool("python", det.HasPython).
		Bool("docker", det.HasDocker).
		Msg("Detection complete")

	return det
}
