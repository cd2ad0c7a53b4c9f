package main

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	handleregistry "github.com/wippyai/handle-registry"
	"github.com/wippyai/handle-registry/box"
	"github.com/wippyai/handle-registry/registry"
)

// session evaluates inspector commands against one registry. Shared by
// script mode and the TUI.
type session struct {
	reg *registry.Registry
}

const helpText = `commands:
  register <addr> [tag]     register exclusive
  regcount <addr> [tag]     register counted
  pin <addr> [tag]          pin (always valid until invalidate)
  unregister <addr> [tag]   release one registration
  invalidate <addr> [tag]   force-remove the record
  verify <addr> [tag]       check validity and type
  registered <addr>         is the handle registered at all
  subtag <sub> <super>      define a hierarchy edge
  unsubtag <sub>            remove a hierarchy edge
  subtags                   dump the hierarchy
  cast <box> <tag>          re-tag a boxed handle
  decode <text>             parse a canonical text form
  info <box>                describe a boxed handle
  list [tag]                enumerate registered handles
  count                     number of registered handles
  clear                     drop all records and edges`

func (s *session) eval(line string) (string, error) {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return "", nil
	}
	cmd, args := fields[0], fields[1:]

	switch cmd {
	case "register", "regcount", "pin":
		h, tag, err := handleTagArgs(args)
		if err != nil {
			return "", err
		}
		var b box.Box
		switch cmd {
		case "register":
			b, err = s.reg.Register(h, tag)
		case "regcount":
			b, err = s.reg.RegisterCounted(h, tag)
		default:
			b, err = s.reg.Pin(h, tag)
		}
		if err != nil {
			return "", err
		}
		return b.String(), nil

	case "unregister", "invalidate", "verify":
		h, tag, err := handleTagArgs(args)
		if err != nil {
			return "", err
		}
		switch cmd {
		case "unregister":
			err = s.reg.Unregister(h, tag)
		case "invalidate":
			err = s.reg.Invalidate(h, tag)
		default:
			err = s.reg.Verify(h, tag)
		}
		if err != nil {
			return "", err
		}
		return "ok", nil

	case "registered":
		h, _, err := handleTagArgs(args)
		if err != nil {
			return "", err
		}
		return strconv.FormatBool(s.reg.Registered(h)), nil

	case "subtag":
		if len(args) != 2 {
			return "", fmt.Errorf("usage: subtag <sub> <super>")
		}
		if err := s.reg.DefineSubtag(handleregistry.Tag(args[0]), handleregistry.Tag(args[1])); err != nil {
			return "", err
		}
		return "ok", nil

	case "unsubtag":
		if len(args) != 1 {
			return "", fmt.Errorf("usage: unsubtag <sub>")
		}
		s.reg.RemoveSubtag(handleregistry.Tag(args[0]))
		return "ok", nil

	case "subtags":
		edges := s.reg.Subtags()
		sort.Slice(edges, func(i, j int) bool { return edges[i].Sub < edges[j].Sub })
		var b strings.Builder
		for _, e := range edges {
			fmt.Fprintf(&b, "%s -> %s\n", e.Sub, e.Super)
		}
		return strings.TrimSuffix(b.String(), "\n"), nil

	case "cast":
		if len(args) != 2 {
			return "", fmt.Errorf("usage: cast <box> <tag>")
		}
		b, err := box.Parse(args[0])
		if err != nil {
			return "", err
		}
		out, err := s.reg.Cast(b, handleregistry.Tag(args[1]))
		if err != nil {
			return "", err
		}
		return out.String(), nil

	case "decode":
		if len(args) != 1 {
			return "", fmt.Errorf("usage: decode <text>")
		}
		b, err := box.Parse(args[0])
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("handle=%x tag=%q", uintptr(b.Handle()), string(b.Tag())), nil

	case "info":
		if len(args) != 1 {
			return "", fmt.Errorf("usage: info <box>")
		}
		b, err := box.Parse(args[0])
		if err != nil {
			return "", err
		}
		return formatInfo(b, s.reg.Describe(b)), nil

	case "list":
		filter := handleregistry.Untyped
		if len(args) == 1 {
			filter = handleregistry.Tag(args[0])
		}
		boxes := s.reg.Enumerate(filter)
		sort.Slice(boxes, func(i, j int) bool { return boxes[i].Handle() < boxes[j].Handle() })
		var b strings.Builder
		for _, bx := range boxes {
			b.WriteString(bx.String())
			b.WriteByte('\n')
		}
		return strings.TrimSuffix(b.String(), "\n"), nil

	case "count":
		return strconv.Itoa(s.reg.Len()), nil

	case "clear":
		s.reg.Clear()
		return "ok", nil

	case "help":
		return helpText, nil

	default:
		return "", fmt.Errorf("unknown command %q (try help)", cmd)
	}
}

func handleTagArgs(args []string) (handleregistry.Handle, handleregistry.Tag, error) {
	if len(args) < 1 || len(args) > 2 {
		return handleregistry.Nil, handleregistry.Untyped, fmt.Errorf("usage: <addr> [tag]")
	}
	h, err := parseHandle(args[0])
	if err != nil {
		return handleregistry.Nil, handleregistry.Untyped, err
	}
	tag := handleregistry.Untyped
	if len(args) == 2 {
		tag = handleregistry.Tag(args[1])
	}
	return h, tag, nil
}

func parseHandle(s string) (handleregistry.Handle, error) {
	t := strings.TrimPrefix(strings.TrimPrefix(s, "0x"), "0X")
	v, err := strconv.ParseUint(t, 16, 64)
	if err != nil {
		return handleregistry.Nil, fmt.Errorf("invalid address %q", s)
	}
	return handleregistry.Handle(uintptr(v)), nil
}

func formatInfo(b box.Box, info registry.Info) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "box=%s registration=%s", b.String(), info.Registration)
	if info.Registration != registry.RegistrationNone {
		fmt.Fprintf(&sb, " registeredTag=%q match=%s", string(info.RegisteredTag), info.Match)
		if info.Registration == registry.RegistrationCounted {
			fmt.Fprintf(&sb, " refs=%d", info.Refs)
		}
	}
	return sb.String()
}
