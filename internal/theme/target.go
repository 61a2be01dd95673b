package theme

// Element is a DOM element the active mode is mirrored onto.
type Element interface {
	SetAttribute(name, value string)
	RemoveAttribute(name string)
	AddClass(names ...string)
	RemoveClass(names ...string)
	SetData(key, value string)
	RemoveData(key string)
}

// TargetResolver resolves configured targets against a document.
// Root and Body may return nil when the document has no such element.
type TargetResolver interface {
	Root() Element
	Body() Element
	QueryAll(selector string) []Element
}

// resolveTargets queries every configured target once. Sentinels map to the
// document and body elements.
func resolveTargets(r TargetResolver, targets []string) []Element {
	if r == nil {
		return nil
	}

	var out []Element
	for _, target := range targets {
		switch target {
		case TargetRoot:
			if el := r.Root(); el != nil {
				out = append(out, el)
			}
		case TargetBody:
			if el := r.Body(); el != nil {
				out = append(out, el)
			}
		default:
			for _, el := range r.QueryAll(target) {
				if el != nil {
					out = append(out, el)
				}
			}
		}
	}
	return out
}

// applyMode mirrors mode onto every element. Classes and dataset keys owned
// by other configured modes are removed first so switching never leaves
// stale markers behind. Applying the same mode twice is a no-op.
func applyMode(elements []Element, cfg Config, mode Mode) {
	if len(elements) == 0 {
		return
	}

	own := make(map[string]bool, len(mode.ClassList))
	for _, c := range mode.ClassList {
		own[c] = true
	}

	var staleClasses []string
	var staleData []string
	for _, other := range cfg.Modes {
		if other.Value == mode.Value {
			continue
		}
		for _, c := range other.ClassList {
			if !own[c] {
				staleClasses = append(staleClasses, c)
			}
		}
		for k := range other.Dataset {
			if _, ok := mode.Dataset[k]; !ok {
				staleData = append(staleData, k)
			}
		}
	}

	for _, el := range elements {
		if len(staleClasses) > 0 {
			el.RemoveClass(staleClasses...)
		}
		for _, k := range staleData {
			el.RemoveData(k)
		}

		el.SetAttribute(cfg.Attribute, mode.AttributeValue)
		if len(mode.ClassList) > 0 {
			el.AddClass(mode.ClassList...)
		}
		for k, v := range mode.Dataset {
			el.SetData(k, v)
		}
	}
}

// stripMarkers removes every marker cfg could have written.
func stripMarkers(elements []Element, cfg Config) {
	for _, el := range elements {
		el.RemoveAttribute(cfg.Attribute)
		for _, m := range cfg.Modes {
			if len(m.ClassList) > 0 {
				el.RemoveClass(m.ClassList...)
			}
			for k := range m.Dataset {
				el.RemoveData(k)
			}
		}
	}
}
