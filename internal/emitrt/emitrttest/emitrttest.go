// Package emitrttest provides minimal, in-memory fakes for the
// collaborator interfaces declared in internal/emitrt, so
// internal/gen's generated-code tests can exercise a full send/
// receive round trip without a real network connection. It is test
// scaffolding only — nothing under internal/gen imports it outside
// of _test.go files.
package emitrttest

import "fmt"

// Conn is a fake emitrt.Conn: a named, always-live connection plus a
// captured log of the debug messages passed to its Debugf method.
type Conn struct {
	Name string
	logs []string
}

// NewConn returns a live fake connection named name.
func NewConn(name string) *Conn { return &Conn{Name: name} }

func (c *Conn) String() string { return c.Name }
func (c *Conn) Live() bool     { return true }

func (c *Conn) Debugf(format string, args ...interface{}) {
	c.logs = append(c.logs, fmt.Sprintf(format, args...))
}

// Logs returns every message recorded via Debugf, in call order.
func (c *Conn) Logs() []string { return c.logs }
