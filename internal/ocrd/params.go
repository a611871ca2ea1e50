package ocrd

// ResolveParameters merges parameter file references and inline overrides
// through the external tool, producing the shell-evaluable and JSON forms of
// the same mapping.
//
// Each reference is first tried as a named resource; when resolution fails
// the raw token passes through unchanged and is treated as a literal path.
// Both representations are requested with identical inputs so they never
// diverge in content.
func ResolveParameters(d Delegate, descriptor, tool string, refs []string, overrides []Override) (map[string]string, string, error) {
	resolved := make([]string, len(refs))
	for i, ref := range refs {
		if path, err := d.ResolveResource(descriptor, tool, ref); err == nil && path != "" {
			resolved[i] = path
		} else {
			resolved[i] = ref
		}
	}

	script, err := d.ParseParameters(descriptor, tool, resolved, overrides, false)
	if err != nil {
		return nil, "", err
	}
	asJSON, err := d.ParseParameters(descriptor, tool, resolved, overrides, true)
	if err != nil {
		return nil, "", err
	}

	params, err := ParseAssignments(script)
	if err != nil {
		return nil, "", err
	}
	return params, asJSON, nil
}
