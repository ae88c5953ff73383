package types

// Detection is the resolved environment-detection record planning consumes.
// It is produced once per run by pkg/detect and is read-only afterwards.
type Detection struct {
	HasNode   bool `json:"hasNode"`
	HasPython bool `json:"hasPython"`
	HasDocker bool `json:"hasDocker"`

	// NodeLockfile is the lockfile basename that was found, which selects
	// the package manager (package-lock.json, pnpm-lock.yaml, yarn.lock,
	// bun.lockb). Empty when no lockfile exists.
	NodeLockfile string `json:"nodeLockfile,omitempty"`

	// NodeVersionFile is ".nvmrc" or ".node-version" when present.
	NodeVersionFile string `json:"nodeVersionFile,omitempty"`

	// PythonManager is the detected dependency manager: "uv", "poetry",
	// or "pip". Empty when HasPython is false.
	PythonManager string `json:"pythonManager,omitempty"`

	// ComposeFile is the docker compose file basename when present.
	ComposeFile string `json:"composeFile,omitempty"`

	// HasEnvExample is true when .env.example exists; combined with
	// MissingEnv it drives the env-sync proposal.
	HasEnvExample bool `json:"hasEnvExample"`
	MissingEnv    bool `json:"missingEnv"`
}
