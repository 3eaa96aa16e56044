package tinylang

import (
	"fmt"
	"maps"
)

const WordSize = 8

type SlotKind uint8

const (
	// SlotStatic is a word in the static arena.
	SlotStatic SlotKind = iota
	// SlotTable is a declared table in the writable segment.
	SlotTable
	// SlotStackArg is a word in the argument-staging area.
	SlotStackArg
)

// Slot is the compile-time storage location of a variable.
type Slot struct {
	Kind   SlotKind
	Offset uint64
	Table  int
}

func StaticSlot(offset uint64) Slot {
	return Slot{Kind: SlotStatic, Offset: offset}
}

func TableSlot(index int) Slot {
	return Slot{Kind: SlotTable, Table: index}
}

func StackArgSlot(offset uint64) Slot {
	return Slot{Kind: SlotStackArg, Offset: offset}
}

// Operand returns the memory operand addressing the slot.
func (s Slot) Operand() string {
	switch s.Kind {
	case SlotTable:
		return fmt.Sprintf("[table_%d]", s.Table)
	case SlotStackArg:
		return fmt.Sprintf("[fstack+%d]", s.Offset)
	}
	return fmt.Sprintf("[mem+%d]", s.Offset)
}

type Resolution uint8

const (
	Unknown Resolution = iota
	Unassigned
	Assigned
)

func (r Resolution) String() string {
	switch r {
	case Unassigned:
		return "unassigned"
	case Assigned:
		return "assigned"
	}
	return "unknown"
}

type binding struct {
	assigned bool
	slot     Slot
}

type Table struct {
	Name   string
	Length int64
}

// globals are shared by an environment and all of its forks.
type globals struct {
	functions map[string]string
	tables    []Table
	strings   [][]Token
}

// Env is the symbol environment threaded through code generation.
type Env struct {
	constants map[string]int64
	variables map[string]binding
	globals   *globals

	bump   uint64
	labels uint64
}

func NewEnv() *Env {
	return &Env{
		constants: make(map[string]int64),
		variables: make(map[string]binding),
		globals: &globals{
			functions: make(map[string]string),
		},
	}
}

// Fork returns the environment of a function body: shared globals, copied
// counters and constants, no variables.
func (e *Env) Fork() *Env {
	return &Env{
		constants: maps.Clone(e.constants),
		variables: make(map[string]binding),
		globals:   e.globals,
		bump:      e.bump,
		labels:    e.labels,
	}
}

// Join copies the counters of a forked environment back.
func (e *Env) Join(child *Env) {
	e.bump = child.bump
	e.labels = child.labels
}

func (e *Env) Const(name string) (int64, bool) {
	v, ok := e.constants[name]
	return v, ok
}

func (e *Env) DefineConst(name string, value int64) {
	e.constants[name] = value
}

func (e *Env) Lookup(name string) (Slot, Resolution) {
	b, ok := e.variables[name]
	if !ok {
		return Slot{}, Unknown
	}
	if !b.assigned {
		return Slot{}, Unassigned
	}
	return b.slot, Assigned
}

// Declare binds name without storage. A previous binding is dropped.
func (e *Env) Declare(name string) {
	e.variables[name] = binding{}
}

func (e *Env) Bind(name string, slot Slot) {
	e.variables[name] = binding{
		assigned: true,
		slot:     slot,
	}
}

// Alloc reserves words consecutive static arena words and returns the offset of the first.
func (e *Env) Alloc(words uint64) uint64 {
	offset := e.bump
	e.bump += words * WordSize
	return offset
}

// StaticSize is the number of static arena bytes allocated so far.
func (e *Env) StaticSize() uint64 {
	return e.bump
}

func (e *Env) NewLabel() string {
	label := fmt.Sprintf("L%d", e.labels)
	e.labels++
	return label
}

func (e *Env) Function(name string) (string, bool) {
	label, ok := e.globals.functions[name]
	return label, ok
}

func (e *Env) DefineFunction(name string, label string) {
	e.globals.functions[name] = label
}

func (e *Env) AddTable(name string, length int64) int {
	e.globals.tables = append(e.globals.tables, Table{
		Name:   name,
		Length: length,
	})
	return len(e.globals.tables) - 1
}

func (e *Env) Tables() []Table {
	return e.globals.tables
}

// AddString pools a string literal and returns its index.
func (e *Env) AddString(elements []Token) int {
	e.globals.strings = append(e.globals.strings, elements)
	return len(e.globals.strings) - 1
}

func (e *Env) Strings() [][]Token {
	return e.globals.strings
}
