package siteconfig

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strconv"

	"gopkg.in/yaml.v3"
)

// Parse decodes a YAML or JSON document into a validated Site. Type mismatches,
// unknown keys and constraint violations all fail with a *ValidationError whose
// paths name the offending fields.
func Parse(data []byte) (*Site, error) {
	cfg, err := decode(data)
	if err != nil {
		return nil, err
	}
	return New(cfg)
}

// MarshalJSON encodes the site as its literal configuration.
func (s *Site) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.cfg)
}

// MarshalYAML encodes the site as its literal configuration.
func (s *Site) MarshalYAML() (any, error) {
	return s.cfg.clone(), nil
}

// rootPath names the whole document in errors that are not tied to a field.
const rootPath = "$"

func decode(data []byte) (Config, error) {
	var doc yaml.Node
	var err error
	if trimmed := bytes.TrimSpace(data); len(trimmed) > 0 && trimmed[0] == '{' {
		err = jsonDocument(trimmed, &doc)
	} else {
		err = yaml.Unmarshal(data, &doc)
	}
	if err != nil {
		return Config{}, &ValidationError{fields: []FieldError{{Path: rootPath, Reason: err.Error()}}}
	}
	d := &decoder{}
	var cfg Config
	if len(doc.Content) == 0 {
		d.v.fail(rootPath, "document is empty")
		return Config{}, d.v.err()
	}
	d.mapping("", doc.Content[0], func(key string, path string, n *yaml.Node) {
		switch key {
		case "title":
			cfg.Title = d.required(path, n)
		case "description":
			cfg.Description = d.required(path, n)
		case "logo":
			cfg.Logo = d.str(path, n)
		case "subtitle":
			cfg.Subtitle = d.str(path, n)
		case "image":
			cfg.Image = d.image(path, n)
		case "headerNavLinks":
			cfg.HeaderNavLinks = d.links(path, n)
		case "footerNavLinks":
			cfg.FooterNavLinks = d.links(path, n)
		case "socialLinks":
			cfg.SocialLinks = d.links(path, n)
		case "hero":
			cfg.Hero = d.hero(path, n)
		case "subscribe":
			cfg.Subscribe = d.subscribe(path, n)
		case "postsPerPage":
			cfg.PostsPerPage = d.integer(path, n)
		case "projectsPerPage":
			cfg.ProjectsPerPage = d.integer(path, n)
		default:
			d.v.fail(path, "unknown field")
		}
	})
	if err := d.v.err(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// decoder walks a yaml.Node tree, recording type errors against field paths.
type decoder struct {
	v validator
}

// jsonDocument reads a JSON document into the node tree the YAML path walks.
// JSON escapes such as "\/" are not valid YAML, so JSON input is tokenized by
// encoding/json instead of being handed to the YAML parser.
func jsonDocument(data []byte, doc *yaml.Node) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	root, err := jsonNode(dec)
	if err != nil {
		return err
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return errors.New("json: unexpected data after the top-level value")
	}
	*doc = yaml.Node{Kind: yaml.DocumentNode, Content: []*yaml.Node{root}}
	return nil
}

func jsonNode(dec *json.Decoder) (*yaml.Node, error) {
	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}
	switch t := tok.(type) {
	case json.Delim:
		n := &yaml.Node{Kind: yaml.SequenceNode, Tag: "!!seq"}
		if t == '{' {
			n = &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
		}
		for dec.More() {
			if n.Kind == yaml.MappingNode {
				key, err := dec.Token()
				if err != nil {
					return nil, err
				}
				n.Content = append(n.Content, scalar("!!str", key.(string)))
			}
			val, err := jsonNode(dec)
			if err != nil {
				return nil, err
			}
			n.Content = append(n.Content, val)
		}
		if _, err := dec.Token(); err != nil {
			return nil, err
		}
		return n, nil
	case string:
		return scalar("!!str", t), nil
	case json.Number:
		if _, err := t.Int64(); err == nil {
			return scalar("!!int", t.String()), nil
		}
		return scalar("!!float", t.String()), nil
	case bool:
		return scalar("!!bool", strconv.FormatBool(t)), nil
	default:
		return scalar("!!null", "null"), nil
	}
}

func scalar(tag, value string) *yaml.Node {
	return &yaml.Node{Kind: yaml.ScalarNode, Tag: tag, Value: value}
}

func resolve(n *yaml.Node) *yaml.Node {
	for n != nil && n.Kind == yaml.AliasNode {
		n = n.Alias
	}
	return n
}

func isNull(n *yaml.Node) bool {
	return n.Kind == yaml.ScalarNode && n.ShortTag() == "!!null"
}

func describe(n *yaml.Node) string {
	switch n.Kind {
	case yaml.MappingNode:
		return "mapping"
	case yaml.SequenceNode:
		return "sequence"
	case yaml.ScalarNode:
		return fmt.Sprintf("%s %q", n.ShortTag(), n.Value)
	default:
		return "unsupported node"
	}
}

func childPath(path, key string) string {
	if path == "" {
		return key
	}
	return path + "." + key
}

// mapping calls fn for every key of a mapping node. It returns false when n is
// null, reporting an error when n is neither null nor a mapping.
func (d *decoder) mapping(path string, n *yaml.Node, fn func(key, path string, val *yaml.Node)) bool {
	n = resolve(n)
	if isNull(n) {
		return false
	}
	if n.Kind != yaml.MappingNode {
		p := path
		if p == "" {
			p = rootPath
		}
		d.v.fail(p, "must be a mapping, got %s", describe(n))
		return false
	}
	seen := make(map[string]bool, len(n.Content)/2)
	for i := 0; i+1 < len(n.Content); i += 2 {
		key := resolve(n.Content[i]).Value
		p := childPath(path, key)
		if seen[key] {
			d.v.fail(p, "duplicate key")
			continue
		}
		seen[key] = true
		fn(key, p, n.Content[i+1])
	}
	return true
}

func (d *decoder) str(path string, n *yaml.Node) *string {
	n = resolve(n)
	if isNull(n) {
		return nil
	}
	if n.Kind != yaml.ScalarNode || n.ShortTag() != "!!str" {
		d.v.fail(path, "must be a string, got %s", describe(n))
		return nil
	}
	v := n.Value
	return &v
}

// required decodes a string whose absence is reported later by validation.
func (d *decoder) required(path string, n *yaml.Node) string {
	if s := d.str(path, n); s != nil {
		return *s
	}
	return ""
}

func (d *decoder) integer(path string, n *yaml.Node) *int {
	n = resolve(n)
	if isNull(n) {
		return nil
	}
	if n.Kind != yaml.ScalarNode || n.ShortTag() != "!!int" {
		d.v.fail(path, "must be an integer, got %s", describe(n))
		return nil
	}
	var v int
	if err := n.Decode(&v); err != nil {
		d.v.fail(path, "must be an integer: %v", err)
		return nil
	}
	return &v
}

func (d *decoder) image(path string, n *yaml.Node) *Image {
	img := &Image{}
	ok := d.mapping(path, n, func(key, p string, val *yaml.Node) {
		switch key {
		case "src":
			img.Src = d.required(p, val)
		case "alt":
			img.Alt = d.str(p, val)
		case "caption":
			img.Caption = d.str(p, val)
		default:
			d.v.fail(p, "unknown field")
		}
	})
	if !ok {
		return nil
	}
	return img
}

func (d *decoder) link(path string, n *yaml.Node) Link {
	var l Link
	d.mapping(path, n, func(key, p string, val *yaml.Node) {
		switch key {
		case "text":
			l.Text = d.required(p, val)
		case "href":
			l.Href = d.required(p, val)
		default:
			d.v.fail(p, "unknown field")
		}
	})
	return l
}

func (d *decoder) links(path string, n *yaml.Node) []Link {
	n = resolve(n)
	if isNull(n) {
		return nil
	}
	if n.Kind != yaml.SequenceNode {
		d.v.fail(path, "must be a sequence, got %s", describe(n))
		return nil
	}
	if len(n.Content) == 0 {
		return nil
	}
	out := make([]Link, 0, len(n.Content))
	for i, item := range n.Content {
		out = append(out, d.link(fmt.Sprintf("%s[%d]", path, i), item))
	}
	return out
}

func (d *decoder) hero(path string, n *yaml.Node) *Hero {
	h := &Hero{}
	ok := d.mapping(path, n, func(key, p string, val *yaml.Node) {
		switch key {
		case "title":
			h.Title = d.str(p, val)
		case "text":
			h.Text = d.str(p, val)
		case "image":
			h.Image = d.image(p, val)
		case "actions":
			h.Actions = d.links(p, val)
		default:
			d.v.fail(p, "unknown field")
		}
	})
	if !ok {
		return nil
	}
	return h
}

func (d *decoder) subscribe(path string, n *yaml.Node) *Subscribe {
	s := &Subscribe{}
	ok := d.mapping(path, n, func(key, p string, val *yaml.Node) {
		switch key {
		case "title":
			s.Title = d.str(p, val)
		case "text":
			s.Text = d.str(p, val)
		case "formUrl":
			s.FormURL = d.required(p, val)
		default:
			d.v.fail(p, "unknown field")
		}
	})
	if !ok {
		return nil
	}
	return s
}
