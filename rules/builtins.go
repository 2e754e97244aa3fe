package rules

// registerBuiltins registers all built-in verb plugins with a fresh session.
// The built-ins are ordinary plugins, going through the same registration
// contract as user-provided ones.
func (sess *Session) registerBuiltins() error {
	builtins := []Plugin{
		classDefinitionPlugin(),
		featurePlugin(),
		routinePlugin(),
		substitutePlugin(),
		positionPlugin(),
		anchorsPlugin(),
		chainPlugin(),
		conditionalPlugin(),
		includePlugin(),
		variablesPlugin(),
		debugPlugin(),
	}
	for _, pl := range builtins {
		if err := sess.RegisterPlugin(pl); err != nil {
			return err
		}
	}
	return nil
}
