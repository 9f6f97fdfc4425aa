package vfs

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"
	"gopkg.in/yaml.v3"
)

//go:embed seed.yaml
var defaultSeed []byte

// Seed is the decoded seed document: the initial tree of a session plus the
// identity and presentation data that go with it.
type Seed struct {
	Hostname string
	User     string
	Home     Path
	Resume   ResumeConfig
	Welcome  string

	tree     *Tree
	sudoHash []byte
}

// ResumeConfig names the résumé file and where its text is fetched from.
type ResumeConfig struct {
	File     string `yaml:"file"`
	Location string `yaml:"location"`
}

// Tree returns the initial tree. All sessions seeded from s may share it.
func (s *Seed) Tree() *Tree { return s.tree }

// CheckPassword reports whether password is the accepted sudo password.
func (s *Seed) CheckPassword(password string) bool {
	return bcrypt.CompareHashAndPassword(s.sudoHash, []byte(password)) == nil
}

type seedDoc struct {
	Hostname     string       `yaml:"hostname"`
	User         string       `yaml:"user"`
	Home         string       `yaml:"home"`
	SudoPassword string       `yaml:"sudo_password"`
	Resume       ResumeConfig `yaml:"resume"`
	Welcome      string       `yaml:"welcome"`
	Tree         *seedNode    `yaml:"tree"`
}

type seedNode struct {
	Type     string               `yaml:"type"`
	Perm     string               `yaml:"perm"`
	Owner    string               `yaml:"owner"`
	Group    string               `yaml:"group"`
	Content  string               `yaml:"content"`
	Children map[string]*seedNode `yaml:"children"`
}

// DefaultSeed decodes the built-in seed document.
func DefaultSeed() (*Seed, error) {
	return ParseSeed(nil)
}

// LoadSeed reads a seed document from a file. Keys missing from the file
// take their values from the built-in document.
func LoadSeed(filename string) (*Seed, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, err
	}
	return ParseSeed(data)
}

// ParseSeed decodes a seed document, with missing keys taken from the
// built-in document. A nil data decodes the built-in document alone.
func ParseSeed(data []byte) (*Seed, error) {
	var doc seedDoc
	if err := yaml.Unmarshal(defaultSeed, &doc); err != nil {
		return nil, fmt.Errorf("built-in seed: %w", err)
	}
	if data != nil {
		var over seedDoc
		if err := yaml.Unmarshal(data, &over); err != nil {
			return nil, fmt.Errorf("seed: %w", err)
		}
		doc.overlay(&over)
	}
	return doc.build()
}

func (d *seedDoc) overlay(o *seedDoc) {
	set := func(dst *string, src string) {
		if src != "" {
			*dst = src
		}
	}
	set(&d.Hostname, o.Hostname)
	set(&d.User, o.User)
	set(&d.Home, o.Home)
	set(&d.SudoPassword, o.SudoPassword)
	set(&d.Resume.File, o.Resume.File)
	set(&d.Resume.Location, o.Resume.Location)
	set(&d.Welcome, o.Welcome)
	if o.Tree != nil {
		d.Tree = o.Tree
	}
}

func (d *seedDoc) build() (*Seed, error) {
	if d.Tree == nil || !d.Tree.isDir() {
		return nil, errors.New("seed: tree must be a directory")
	}
	if d.User == "" {
		return nil, errors.New("seed: user must not be empty")
	}
	root, err := d.Tree.build("/", "root", "root")
	if err != nil {
		return nil, err
	}
	tree := NewTree(root)
	home := ParsePath(d.Home)
	if _, err := tree.Dir(home); err != nil {
		return nil, fmt.Errorf("seed: home %s is not a directory in the tree", d.Home)
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(d.SudoPassword), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("seed: %w", err)
	}
	return &Seed{
		Hostname: d.Hostname,
		User:     d.User,
		Home:     home,
		Resume:   d.Resume,
		Welcome:  d.Welcome,
		tree:     tree,
		sudoHash: hash,
	}, nil
}

func (n *seedNode) isDir() bool { return n.Type == "dir" || n.Children != nil }

// build converts a seed node to a Node. Seeded files have a zero
// modification time.
func (n *seedNode) build(path, owner, group string) (*Node, error) {
	if n.Owner != "" {
		owner = n.Owner
	}
	if n.Group != "" {
		group = n.Group
	}
	if !n.isDir() {
		if n.Type != "" && n.Type != "file" {
			return nil, fmt.Errorf("seed: %s: unknown type %q", path, n.Type)
		}
		return NewFile(n.Content, orDefault(n.Perm, DefaultFilePerm), owner, group, time.Time{}), nil
	}
	dir := NewDir(orDefault(n.Perm, DefaultDirPerm), owner, group)
	for name, child := range n.Children {
		if name == "" || name == "." || name == ".." || strings.Contains(name, "/") {
			return nil, fmt.Errorf("seed: %s: invalid name %q", path, name)
		}
		if child == nil {
			child = &seedNode{}
		}
		c, err := child.build(strings.TrimSuffix(path, "/")+"/"+name, owner, group)
		if err != nil {
			return nil, err
		}
		dir = dir.withChild(name, c)
	}
	return dir, nil
}

func orDefault(s, d string) string {
	if s == "" {
		return d
	}
	return s
}
