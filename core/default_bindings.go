package core

func DefaultKeyBindings() []KeyBinding {
	return []KeyBinding{
		{Keys: []string{"q"}, Action: "quit", Description: "quit", Scopes: []string{"*"}},
		{Keys: []string{"n"}, Action: "push", Description: "open", Scopes: []string{"*"}},
		{Keys: []string{"esc", "backspace"}, Action: "pop", Description: "back", Scopes: []string{"*"}},
		{Keys: []string{":", "ctrl+k"}, Action: "palette", Description: "commands", Scopes: []string{"*"}},
		{Keys: []string{"e"}, Action: "cycle-edges", Description: "edges", Scopes: []string{"*"}},
		{Keys: []string{"s"}, Action: "toggle-swipe", Description: "swipe on/off", Scopes: []string{"*"}},
		{Keys: []string{"j", "down"}, Action: "scroll-down", Description: "scroll", Scopes: []string{"screen:deck"}},
		{Keys: []string{"k", "up"}, Action: "scroll-up", Scopes: []string{"screen:deck"}},
	}
}

// ApplyActionKeybindings returns bindings with the keys of each action
// replaced by the ones in actionKeys, when present.
func ApplyActionKeybindings(bindings []KeyBinding, actionKeys map[string][]string) []KeyBinding {
	out := make([]KeyBinding, 0, len(bindings))
	for _, b := range bindings {
		next := KeyBinding{
			Keys:        append([]string(nil), b.Keys...),
			Action:      b.Action,
			Description: b.Description,
			Scopes:      append([]string(nil), b.Scopes...),
		}
		if keys, ok := actionKeys[b.Action]; ok && len(keys) > 0 {
			next.Keys = append([]string(nil), keys...)
		}
		out = append(out, next)
	}
	return out
}
