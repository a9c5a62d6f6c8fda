package log

import (
	"fmt"

	"github.com/sirupsen/logrus"
)

// Entry is a nullable, chainable log record. When the owning module/level is
// disabled, *Entry is nil and every method is a no-op field check away from
// being free — callers write log.ModCPU.DebugZ("msg").Hex16("pc", pc).End()
// unconditionally without paying for disabled levels.
type Entry struct {
	mod    Module
	lvl    logrus.Level
	msg    string
	fields logrus.Fields
}

func (e *Entry) fieldsOrNew() logrus.Fields {
	if e.fields == nil {
		e.fields = make(logrus.Fields, 4)
	}
	return e.fields
}

func (e *Entry) String(key, val string) *Entry {
	if e == nil {
		return nil
	}
	e.fieldsOrNew()[key] = val
	return e
}

func (e *Entry) Bool(key string, val bool) *Entry {
	if e == nil {
		return nil
	}
	e.fieldsOrNew()[key] = val
	return e
}

func (e *Entry) Int(key string, val int) *Entry {
	if e == nil {
		return nil
	}
	e.fieldsOrNew()[key] = val
	return e
}

func (e *Entry) Int64(key string, val int64) *Entry {
	if e == nil {
		return nil
	}
	e.fieldsOrNew()[key] = val
	return e
}

func (e *Entry) Uint8(key string, val uint8) *Entry {
	if e == nil {
		return nil
	}
	e.fieldsOrNew()[key] = val
	return e
}

func (e *Entry) Uint16(key string, val uint16) *Entry {
	if e == nil {
		return nil
	}
	e.fieldsOrNew()[key] = val
	return e
}

func (e *Entry) Hex8(key string, val uint8) *Entry {
	if e == nil {
		return nil
	}
	e.fieldsOrNew()[key] = fmt.Sprintf("%02x", val)
	return e
}

func (e *Entry) Hex16(key string, val uint16) *Entry {
	if e == nil {
		return nil
	}
	e.fieldsOrNew()[key] = fmt.Sprintf("%04x", val)
	return e
}

func (e *Entry) Error(key string, err error) *Entry {
	if e == nil {
		return nil
	}
	e.fieldsOrNew()[key] = err
	return e
}

func (e *Entry) Blob(key string, val []byte) *Entry {
	if e == nil {
		return nil
	}
	e.fieldsOrNew()[key] = fmt.Sprintf("%x", val)
	return e
}

// End emits the entry. No-op when e is nil (module/level disabled).
func (e *Entry) End() {
	if e == nil {
		return
	}
	logrus.WithFields(e.fields).WithField("mod", e.mod.name()).Log(e.lvl, e.msg)
}
