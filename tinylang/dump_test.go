package tinylang

import "testing"

func TestDump(t *testing.T) {
	stmts := parse(t, `if (x == 1) { t[0] = "a"; }`)
	dump := Dump(stmts[0])
	if dump["node"] != "If" {
		t.Fatalf("got %v", dump["node"])
	}
	cond := dump["cond"].(map[string]any)
	if cond["node"] != "BinaryOp" {
		t.Fatalf("got %v", cond["node"])
	}
	if tok := cond["token"].(map[string]any); tok["kind"] != "`==`" || tok["location"] != "test:1:7" {
		t.Fatalf("got %v", tok)
	}
	body := dump["body"].(map[string]any)
	stmt := body["statements"].([]any)[0].(map[string]any)
	if stmt["node"] != "Assign" {
		t.Fatalf("got %v", stmt["node"])
	}
	array := stmt["expr"].(map[string]any)
	if elems := array["elements"].([]any); len(elems) != 2 {
		t.Fatalf("got %v", elems)
	}
}
