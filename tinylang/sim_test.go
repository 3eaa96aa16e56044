package tinylang

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"math/bits"
	"strconv"
	"strings"
	"testing"
)

// machine interprets the subset of fasm that the generator emits.
type machine struct {
	regs    map[string]uint64
	memory  []byte
	symbols map[string]uint64
	code    [][]string
	labels  map[string]int
	stack   []uint64
	zero    bool
	stdout  bytes.Buffer
}

const dataBase = 0x1000

func newMachine(asm string) (*machine, error) {
	m := &machine{
		regs:    make(map[string]uint64),
		memory:  make([]byte, dataBase),
		symbols: make(map[string]uint64),
		labels:  make(map[string]int),
	}
	data := false
	for _, line := range strings.Split(asm, "\n") {
		line = strings.TrimSpace(line)
		switch {
		case line == "", strings.HasPrefix(line, ";"),
			strings.HasPrefix(line, "format "), strings.HasPrefix(line, "entry "):
			continue
		case line == "segment readable writable":
			data = true
			continue
		case strings.HasPrefix(line, "segment "):
			continue
		}
		if data {
			if err := m.define(line); err != nil {
				return nil, err
			}
			continue
		}
		if name, ok := strings.CutSuffix(line, ":"); ok {
			m.labels[name] = len(m.code)
			continue
		}
		op, rest, _ := strings.Cut(line, " ")
		instr := []string{op}
		if rest != "" {
			for _, operand := range strings.Split(rest, ",") {
				instr = append(instr, strings.TrimSpace(operand))
			}
		}
		m.code = append(m.code, instr)
	}
	return m, nil
}

func (m *machine) define(line string) error {
	fields := strings.Fields(line)
	if len(fields) < 3 {
		return fmt.Errorf("bad data line: %s", line)
	}
	name := fields[0]
	m.symbols[name] = uint64(len(m.memory))
	switch fields[1] {
	case "rb":
		n, err := strconv.ParseUint(fields[2], 10, 64)
		if err != nil {
			return err
		}
		m.memory = append(m.memory, make([]byte, n)...)
	case "db":
		// table_N db L * 8 dup(0)
		n, err := strconv.ParseUint(fields[2], 10, 64)
		if err != nil {
			return err
		}
		m.memory = append(m.memory, make([]byte, n*WordSize)...)
	case "dq":
		for _, v := range strings.Split(fields[2], ",") {
			n, err := immediate(v)
			if err != nil {
				return err
			}
			m.memory = binary.LittleEndian.AppendUint64(m.memory, uint64(n))
		}
	default:
		return fmt.Errorf("bad data line: %s", line)
	}
	return nil
}

func isRegister(s string) bool {
	switch s {
	case "rax", "rbx", "rcx", "rdx", "rdi", "rsi", "r10", "cl":
		return true
	}
	return false
}

func (m *machine) address(operand string) uint64 {
	inner := strings.TrimSuffix(strings.TrimPrefix(operand, "["), "]")
	base, offset, _ := strings.Cut(inner, "+")
	var addr uint64
	if isRegister(base) {
		addr = m.regs[base]
	} else {
		addr = m.symbols[base]
	}
	if offset != "" {
		n, _ := strconv.ParseUint(offset, 10, 64)
		addr += n
	}
	return addr
}

func (m *machine) read(operand string) (uint64, error) {
	operand = strings.TrimPrefix(operand, "qword ")
	if strings.HasPrefix(operand, "[") {
		addr := m.address(operand)
		if addr+WordSize > uint64(len(m.memory)) {
			return 0, fmt.Errorf("read out of bounds: %d", addr)
		}
		return binary.LittleEndian.Uint64(m.memory[addr:]), nil
	}
	if operand == "cl" {
		return m.regs["rcx"] & 0xff, nil
	}
	if isRegister(operand) {
		return m.regs[operand], nil
	}
	n, err := immediate(operand)
	if err != nil {
		return 0, err
	}
	return uint64(n), nil
}

// immediate reads a number as fasm does: decimal, or hexadecimal with 0x.
func immediate(s string) (int64, error) {
	if hex, ok := strings.CutPrefix(strings.ToLower(s), "0x"); ok {
		return strconv.ParseInt(hex, 16, 64)
	}
	return strconv.ParseInt(s, 10, 64)
}

func (m *machine) write(operand string, v uint64) error {
	operand = strings.TrimPrefix(operand, "qword ")
	if strings.HasPrefix(operand, "[") {
		addr := m.address(operand)
		if addr+WordSize > uint64(len(m.memory)) {
			return fmt.Errorf("write out of bounds: %d", addr)
		}
		binary.LittleEndian.PutUint64(m.memory[addr:], v)
		return nil
	}
	if !isRegister(operand) {
		return fmt.Errorf("not writable: %s", operand)
	}
	m.regs[operand] = v
	return nil
}

func (m *machine) run(maxSteps int) (status uint64, err error) {
	pc, ok := m.labels[entrySymbol]
	if !ok {
		return 0, fmt.Errorf("no entry")
	}
	for step := 0; step < maxSteps; step++ {
		if pc >= len(m.code) {
			return 0, fmt.Errorf("fell off the end")
		}
		instr := m.code[pc]
		pc++
		args := make([]uint64, len(instr)-1)
		switch instr[0] {
		case "lea", "jmp", "je", "call", "pop":
		default:
			for i, operand := range instr[1:] {
				if args[i], err = m.read(operand); err != nil {
					return 0, fmt.Errorf("%v: %w", instr, err)
				}
			}
		}
		switch instr[0] {
		case "mov":
			err = m.write(instr[1], args[1])
		case "lea":
			err = m.write(instr[1], m.address(instr[2]))
		case "push":
			m.stack = append(m.stack, args[0])
		case "pop":
			if len(m.stack) == 0 {
				return 0, fmt.Errorf("pop on empty stack")
			}
			v := m.stack[len(m.stack)-1]
			m.stack = m.stack[:len(m.stack)-1]
			err = m.write(instr[1], v)
		case "add":
			err = m.write(instr[1], args[0]+args[1])
		case "sub":
			err = m.write(instr[1], args[0]-args[1])
		case "and":
			err = m.write(instr[1], args[0]&args[1])
		case "or":
			err = m.write(instr[1], args[0]|args[1])
		case "xor":
			err = m.write(instr[1], args[0]^args[1])
		case "shl":
			err = m.write(instr[1], args[0]<<(args[1]&63))
		case "shr":
			err = m.write(instr[1], args[0]>>(args[1]&63))
		case "mul":
			m.regs["rdx"], m.regs["rax"] = bits.Mul64(m.regs["rax"], args[0])
		case "div":
			if args[0] == 0 {
				return 0, fmt.Errorf("division by zero")
			}
			m.regs["rax"], m.regs["rdx"] = bits.Div64(m.regs["rdx"], m.regs["rax"], args[0])
		case "cmp":
			m.zero = args[0] == args[1]
		case "cmove":
			if m.zero {
				err = m.write(instr[1], args[1])
			}
		case "cmovne":
			if !m.zero {
				err = m.write(instr[1], args[1])
			}
		case "je":
			if m.zero {
				pc, err = m.jump(instr[1])
			}
		case "jmp":
			pc, err = m.jump(instr[1])
		case "call":
			m.stack = append(m.stack, uint64(pc))
			pc, err = m.jump(instr[1])
		case "ret":
			if len(m.stack) == 0 {
				return 0, fmt.Errorf("ret on empty stack")
			}
			pc = int(m.stack[len(m.stack)-1])
			m.stack = m.stack[:len(m.stack)-1]
		case "syscall":
			switch m.regs["rax"] {
			case 1:
				addr, n := m.regs["rsi"], m.regs["rdx"]
				m.stdout.Write(m.memory[addr : addr+n])
			case 60:
				return m.regs["rdi"], nil
			default:
				return 0, fmt.Errorf("unknown syscall %d", m.regs["rax"])
			}
		default:
			return 0, fmt.Errorf("unknown instruction %v", instr)
		}
		if err != nil {
			return 0, fmt.Errorf("%v: %w", instr, err)
		}
	}
	return 0, fmt.Errorf("too many steps")
}

func (m *machine) jump(label string) (int, error) {
	pc, ok := m.labels[label]
	if !ok {
		return 0, fmt.Errorf("no label %s", label)
	}
	return pc, nil
}

var simConfig = Config{
	StaticMemorySize: 4096,
}

// execute compiles and interprets src, returning its output and exit status.
func execute(t *testing.T, src string) (string, uint64) {
	t.Helper()
	asm, err := Compile("test", strings.NewReader(src), simConfig)
	if err != nil {
		t.Fatalf("src: %s, err: %v", src, err)
	}
	m, err := newMachine(asm)
	if err != nil {
		t.Fatal(err)
	}
	status, err := m.run(1_000_000)
	if err != nil {
		t.Fatalf("src: %s\nasm:\n%s\nerr: %v", src, asm, err)
	}
	return m.stdout.String(), status
}
