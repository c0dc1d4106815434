// Package tlog is the runtime's ambient logging layer: a tag-filtered
// leveled logger. No structured-logging third-party library (zerolog, zap,
// logrus) fit without adding an unvalidated dependency, so this keeps
// maya.go's own tag/category idiom (internal/logger/tags.go) rather than
// fall back to bare fmt.Println; see DESIGN.md.
package tlog

import "strings"

// Tags identify which subsystem emitted a log line, so a consumer can
// enable only the noise they currently care about.
const (
	TagUnits    = "UNITS"
	TagTree     = "TREE"
	TagState    = "STATE"
	TagContext  = "CONTEXT"
	TagLayout   = "LAYOUT"
	TagCommand  = "COMMAND"
	TagReorder  = "REORDER"
	TagRenderer = "RENDERER"
	TagFrame    = "FRAME"
	TagInput    = "INPUT"
)

var (
	LayoutGroup   = []string{TagUnits, TagTree, TagLayout}
	RenderGroup   = []string{TagCommand, TagReorder, TagRenderer}
	RuntimeGroup  = []string{TagState, TagContext, TagFrame, TagInput}
	MinimalGroup  = []string{TagFrame}
)

// ParseTags parses a comma-separated list of tags, or a named group, from a
// configuration string such as the TESSERA_DEBUG environment variable.
func ParseTags(raw string) []string {
	if raw == "" {
		return nil
	}
	switch raw {
	case "layout":
		return LayoutGroup
	case "render":
		return RenderGroup
	case "runtime":
		return RuntimeGroup
	case "minimal":
		return MinimalGroup
	case "all":
		all := append(append(append([]string{}, LayoutGroup...), RenderGroup...), RuntimeGroup...)
		return all
	}
	var tags []string
	for _, t := range strings.Split(strings.ToUpper(raw), ",") {
		t = strings.TrimSpace(t)
		if t != "" {
			tags = append(tags, t)
		}
	}
	return tags
}
