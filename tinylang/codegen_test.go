package tinylang

import (
	"errors"
	"strings"
	"testing"
)

func generate(t *testing.T, src string) string {
	t.Helper()
	asm, err := Compile("test", strings.NewReader(src), simConfig)
	if err != nil {
		t.Fatalf("src: %s, err: %v", src, err)
	}
	return asm
}

func generateError(t *testing.T, src string, config Config) *Error {
	t.Helper()
	asm, err := Compile("test", strings.NewReader(src), config)
	if err == nil {
		t.Fatalf("src: %s, expected error", src)
	}
	if asm != "" {
		t.Fatalf("src: %s, expected no output", src)
	}
	var e *Error
	if !errors.As(err, &e) {
		t.Fatalf("src: %s, expected *Error, got %v", src, err)
	}
	return e
}

func labelsOf(asm string) []string {
	var ret []string
	for _, line := range strings.Split(asm, "\n") {
		if name, ok := strings.CutSuffix(line, ":"); ok {
			ret = append(ret, name)
		}
	}
	return ret
}

func TestPutcAssigned(t *testing.T) {
	out, status := execute(t, `let x; x = 2; putc x;`)
	if out != "\x02" || status != 0 {
		t.Fatalf("got %q %d", out, status)
	}
}

func TestTableStore(t *testing.T) {
	out, status := execute(t, `const N = 3; let t[N]; t[1] = 65; putc t[1];`)
	if out != "A" || status != 0 {
		t.Fatalf("got %q %d", out, status)
	}
}

func TestFunctionCall(t *testing.T) {
	out, status := execute(t, `fun f(a,b){ return a+b; } fun main(){ let r; r = f(2,3); putc r; }`)
	if out != "\x05" || status != 0 {
		t.Fatalf("got %q %d", out, status)
	}
}

func TestUndeclared(t *testing.T) {
	e := generateError(t, `putc 1; putc y;`, simConfig)
	if !errors.Is(e, ErrName) {
		t.Fatalf("got %v", e)
	}
	if e.Message != "identifier `y` is not declared" {
		t.Fatalf("got %s", e.Message)
	}
}

// Arguments are staged in shared slots: a call nested in an argument list
// overwrites the arguments staged before it.
func TestStagingLastWriteWins(t *testing.T) {
	out, _ := execute(t, `
		fun id(x) return x;
		fun sub(a, b) return a - b;
		putc sub(9, id(4));
	`)
	if out != "\x00" {
		t.Fatalf("expected the first argument to be overwritten by 4, got %q", out)
	}

	// parameters live in per-function static slots, recursion overwrites them
	out, _ = execute(t, `
		fun fact(n) {
			if (n == 0) return 1;
			return fact(n - 1) * n;
		}
		putc fact(3);
	`)
	if out != "\x00" {
		t.Fatalf("expected n to be 0 after the recursive calls, got %q", out)
	}

	// operands already pushed survive
	out, _ = execute(t, `
		fun fact(n) {
			if (n == 0) return 1;
			return n * fact(n - 1);
		}
		putc fact(4);
	`)
	if out != "\x18" {
		t.Fatalf("got %q", out)
	}
}

func TestArithmetic(t *testing.T) {
	tests := []struct {
		src      string
		expected string
	}{
		{`putc 17 / 5 + 48;`, "3"},
		{`putc 17 % 5 + 48;`, "2"},
		{`putc (1 << 6) | 1;`, "A"},
		{`putc (131 >> 1) & 127;`, "A"},
		{`putc 13 * 5;`, "A"},
		{`putc 10 - 3 - 2 + 48;`, "9"},
		{`putc (3 == 3) + 48;`, "1"},
		{`putc (3 == 4) + 48;`, "0"},
		{`putc (3 != 4) + 48;`, "1"},
		{`putc (3 != 3) + 48;`, "0"},
		{`putc 'a';`, "a"},
		{`putc 0x41;`, "A"},
		{`putc 321;`, "A"},
	}
	for _, test := range tests {
		t.Run(test.src, func(t *testing.T) {
			out, status := execute(t, test.src)
			if out != test.expected || status != 0 {
				t.Fatalf("expected %q, got %q %d", test.expected, out, status)
			}
		})
	}
}

func TestControlFlow(t *testing.T) {
	out, _ := execute(t, `
		let s = "hi\n";
		let i = 0;
		while (s[i] != 0) {
			putc s[i];
			i = i + 1;
		}
	`)
	if out != "hi\n" {
		t.Fatalf("got %q", out)
	}

	out, _ = execute(t, `
		const N = 5;
		let t[N];
		let i = 0;
		while (i != N) {
			t[i] = i * i;
			i = i + 1;
		}
		i = 0;
		while (i != N) {
			if (t[i] % 2) putc 'o';
			if ((t[i] % 2) == 0) putc 'e';
			i = i + 1;
		}
	`)
	if out != "eoeoe" {
		t.Fatalf("got %q", out)
	}
}

func TestArrayLiteral(t *testing.T) {
	out, _ := execute(t, `
		const B = 66;
		let a = [65, B, 67];
		putc a[0]; putc a[1]; putc a[2];
	`)
	if out != "ABC" {
		t.Fatalf("got %q", out)
	}
}

func TestPassTable(t *testing.T) {
	out, _ := execute(t, `
		fun second(p) return p[1];
		putc second("xyz");
	`)
	if out != "y" {
		t.Fatalf("got %q", out)
	}
}

func TestMainReturnStatus(t *testing.T) {
	out, status := execute(t, `fun main() { putc 'k'; return 3; putc 'x'; }`)
	if out != "k" || status != 3 {
		t.Fatalf("got %q %d", out, status)
	}
}

func TestEntryLabel(t *testing.T) {
	asm := generate(t, `putc 1;`)
	if !strings.HasPrefix(asm, "format ELF64 executable\nsegment readable executable\n    entry start\nstart:\n") {
		t.Fatalf("got:\n%s", asm)
	}
	asm = generate(t, `fun main() putc 1;`)
	if n := strings.Count(asm, "start:"); n != 1 {
		t.Fatalf("expected one start label, got %d", n)
	}
	asm = generate(t, `{ fun main() putc 1; }`)
	if n := strings.Count(asm, "start:"); n != 1 {
		t.Fatalf("expected one start label, got %d", n)
	}
}

func TestWritableSegment(t *testing.T) {
	asm := generate(t, `let t[4]; let s = "a";`)
	_, data, ok := strings.Cut(asm, "segment readable writable\n")
	if !ok {
		t.Fatal("no writable segment")
	}
	expected := "table_0 db 4 * 8 dup(0)\nstring_0 dq 97,0\nfstack rb 40\nmem rb 4096\n"
	if data != expected {
		t.Fatalf("got:\n%s", data)
	}
}

func TestLinearLowering(t *testing.T) {
	asm := generate(t, `
		const N = 2;
		let x = 1;
		let y;
		y = x + N * 3;
		putc y;
	`)
	labels := labelsOf(asm)
	if len(labels) != 1 || labels[0] != entrySymbol {
		t.Fatalf("expected only the entry label, got %v", labels)
	}
	for _, instr := range []string{"jmp", "je", "call"} {
		if strings.Contains(asm, "\n"+instr+" ") {
			t.Fatalf("unexpected %s", instr)
		}
	}
}

func TestDeterministic(t *testing.T) {
	src := `
		fun f(a) { while (a != 0) a = a - 1; return a; }
		let t[3];
		if (f(3) == 0) t[0] = "s";
		putc t[0];
	`
	if generate(t, src) != generate(t, src) {
		t.Fatal("output differs")
	}
}

func TestConstantInlining(t *testing.T) {
	asm := generate(t, `const N = 0x2a; let x = N + N; putc N;`)
	if n := strings.Count(asm, "mov rax, 42\n"); n != 3 {
		t.Fatalf("expected 3 inlined constants, got %d", n)
	}
	// x is the first arena slot
	if !strings.Contains(asm, "mov qword [mem+0], rax\n") {
		t.Fatalf("got:\n%s", asm)
	}
}

func TestIntegerLiterals(t *testing.T) {
	// leading zeros are decimal wherever a literal appears
	stdout, _ := execute(t, `const N = 010; putc N; putc 010;`)
	if stdout != "\n\n" {
		t.Fatalf("got %q", stdout)
	}
	asm := generate(t, `const N = 010; let t[010]; let u[0x2];`)
	if !strings.Contains(asm, "table_0 db 10 * 8 dup(0)\n") {
		t.Fatalf("got:\n%s", asm)
	}
	if !strings.Contains(asm, "table_1 db 2 * 8 dup(0)\n") {
		t.Fatalf("got:\n%s", asm)
	}
	for _, lit := range []string{"0b1", "0o7", "1_000"} {
		e := generateError(t, "const N = "+lit+";", simConfig)
		if !errors.Is(e, ErrType) {
			t.Fatalf("%s: got %v", lit, e)
		}
	}
}

func TestConstantInFunction(t *testing.T) {
	stdout, _ := execute(t, `
		const C = 65;
		fun f() {
			putc C;
			return 0;
		}
		f();
	`)
	if stdout != "A" {
		t.Fatalf("got %q", stdout)
	}
}

func TestLazyAllocation(t *testing.T) {
	e := generateError(t, `let x; putc x;`, simConfig)
	if !errors.Is(e, ErrName) || e.Message != "identifier `x` is not assigned" {
		t.Fatalf("got %v", e)
	}

	asm := generate(t, `let x; let y = 1; x = 2; x = 3; putc x; putc x;`)
	if n := strings.Count(asm, "mov qword [mem+8], rax\n"); n != 2 {
		t.Fatalf("expected both stores to x at the same slot, got %d", n)
	}
	if n := strings.Count(asm, "mov rax, qword [mem+8]\n"); n != 2 {
		t.Fatalf("expected both reads of x from the same slot, got %d", n)
	}
}

func TestLabelUniqueness(t *testing.T) {
	asm := generate(t, `
		let i = 0;
		while (i != 3) {
			let j = 0;
			while (j != 3) {
				if (i == j) putc 'x';
				if (i != j) { if (j == 0) putc 'y'; }
				j = j + 1;
			}
			i = i + 1;
		}
		fun f(a) { if (a) return 1; while (a) a = 0; return 0; }
		if (f(1)) putc 'z';
	`)
	seen := make(map[string]bool)
	for _, label := range labelsOf(asm) {
		if seen[label] {
			t.Fatalf("duplicated label %s", label)
		}
		seen[label] = true
	}
	// 3 while, 5 if, two labels each
	count := 0
	for label := range seen {
		if strings.HasPrefix(label, "L") {
			count++
		}
	}
	if count != 16 {
		t.Fatalf("expected 16 labels, got %d", count)
	}
}

func TestIfLabels(t *testing.T) {
	env := NewEnv()
	g := NewGenerator(simConfig)
	tokens, err := Lex("test", strings.NewReader("if (1) putc 1;"))
	if err != nil {
		t.Fatal(err)
	}
	stmts, err := Parse("test", tokens)
	if err != nil {
		t.Fatal(err)
	}
	if err := g.gen(env, stmts[0]); err != nil {
		t.Fatal(err)
	}
	if label := env.NewLabel(); label != "L2" {
		t.Fatalf("if should take two labels, next is %s", label)
	}
	asm := g.out.String()
	if !strings.Contains(asm, "L0:\n") || !strings.Contains(asm, "je L1\n") {
		t.Fatalf("got:\n%s", asm)
	}
	if strings.Index(asm, "L0:") > strings.Index(asm, "cmp rax, 0") {
		t.Fatalf("entry label should precede the condition:\n%s", asm)
	}
}

func TestGenerateErrors(t *testing.T) {
	tests := []struct {
		src     string
		kind    error
		message string
	}{
		{`fun f() return 1; fun f() return 2;`, ErrName, "function `f` is already declared"},
		{`fun f() return 1; putc f;`, ErrName, "`f` is a function, not a variable"},
		{`fun f() return 1; f = 2;`, ErrName, "cannot assign to function `f`"},
		{`fun f() return 1; let f;`, ErrName, "`f` is already a function"},
		{`let x; fun x() return 1;`, ErrName, "`x` is already a variable"},
		{`x = 1;`, ErrName, "identifier `x` is not declared"},
		{`g();`, ErrName, "function `g` is not declared"},
		{`const N = 1; N = 2;`, ErrName, "cannot assign to constant `N`"},
		{`const N = x;`, ErrType, "the value of constant `N` is not an integer: `x`"},
		{`const N = 12ab;`, ErrType, "the value of constant `N` is not an integer: `12ab`"},
		{`let t[M];`, ErrType, "the length of table `t` is not an integer: `M`"},
		{`let t[0];`, ErrType, "the length of table `t` must be positive, got 0"},
		{`let t[2]; t = 1;`, ErrType, "cannot assign to table `t`"},
		{`let a = [1, x];`, ErrType, "array element `x` is not an integer constant"},
		{`const N = 1; putc N[0];`, ErrType, "constant `N` cannot be indexed"},
		{`fun f(a, b, c, d, e, g) return 0;`, ErrLimit, "function `f` has 6 parameters, at most 5"},
		{`fun f() return 0; f(1, 2, 3, 4, 5, 6);`, ErrLimit, "too many arguments in call to `f`: 6, at most 5"},
	}
	for _, test := range tests {
		t.Run(test.src, func(t *testing.T) {
			e := generateError(t, test.src, simConfig)
			if !errors.Is(e, test.kind) {
				t.Errorf("expected %v, got %v", test.kind, e.Kind)
			}
			if e.Message != test.message {
				t.Errorf("expected %q, got %q", test.message, e.Message)
			}
		})
	}
}

func TestArenaLimit(t *testing.T) {
	e := generateError(t, `putc 1; putc 2; putc 3;`, Config{StaticMemorySize: 16})
	if !errors.Is(e, ErrLimit) {
		t.Fatalf("got %v", e)
	}
	if e.Location.String() != "test:1:17" {
		t.Fatalf("got %v", e.Location)
	}
}

func TestMaxArgsConfig(t *testing.T) {
	asm, err := Compile("test", strings.NewReader(`fun f(a, b) return a; putc f(1, 2);`), Config{MaxArgs: 2})
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(asm, "fstack rb 16\n") {
		t.Fatalf("got:\n%s", asm)
	}
	e := generateError(t, `fun f(a, b, c) return a;`, Config{MaxArgs: 2})
	if !errors.Is(e, ErrLimit) {
		t.Fatalf("got %v", e)
	}
}
