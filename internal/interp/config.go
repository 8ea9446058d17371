package interp

// RuntimeConfig is the evaluator's single carrier for the closed CLI flag
// set, threaded through the Interpreter instead of scattered
// package-level globals.
type RuntimeConfig struct {
	WithoutStdlib           bool
	ReplNoColor             bool
	Watch                   bool
	ShowFuns                bool
	Check                   bool
	ToPy                    bool
	Verbose                 bool
	ShowBash                bool
	ShowLets                bool
	ShowMuts                bool
	NoSanitizePipes         bool
	ErrorOnBashFail         bool
	SuppressWarnings        bool
	DisableImplicitReturns  bool

	Include []string // include directories consulted by the module loader, first match wins
	Import  []string // modules to import automatically before running the entrypoint

	ReplTheme   string
	ReplWelcome string

	// Aliases holds the Use-statement registered name -> shell command path
	// table consulted by Exec.
	Aliases map[string]string
}

// ImplicitReturns reports whether a function body with no explicit Return
// should yield its last expression-statement's value.
// The CLI flag is phrased as a negative (disable-implicit-returns) because
// implicit returns are EARL's default.
func (c *RuntimeConfig) ImplicitReturns() bool { return !c.DisableImplicitReturns }

// NewRuntimeConfig returns the default flag set: every boolean off, implicit
// returns on (the flag that disables them defaults to false), no include
// directories beyond the script's own.
func NewRuntimeConfig() *RuntimeConfig {
	return &RuntimeConfig{
		Aliases: make(map[string]string),
	}
}
