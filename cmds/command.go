package cmds

import (
	"fmt"
	"reflect"
)

// Command is a word on the command line. Func consumes the following words as
// its arguments, Subs become available after it.
type Command struct {
	Func        reflect.Value
	Subs        map[string]*Command
	Description string
	Aliases     []string
}

func (c *Command) Desc(desc string) *Command {
	c.Description = desc
	return c
}

func (c *Command) Alias(names ...string) *Command {
	c.Aliases = append(c.Aliases, names...)
	return c
}

func Func(fn any) *Command {
	fnValue := reflect.ValueOf(fn)

	if fnValue.Kind() != reflect.Func {
		panic(fmt.Errorf("command must be a function, got %T", fn))
	}

	fnType := fnValue.Type()
	switch {
	case fnType.NumOut() >= 2:
		panic(fmt.Errorf("command must return 0 or 1 value: %v", fnType))
	case fnType.NumOut() == 1 && fnType.Out(0) != errorType:
		panic(fmt.Errorf("command must return error: %v", fnType))
	}

	command := &Command{
		Func: fnValue,
	}

	return command
}

func Sub(subs map[string]*Command) *Command {
	return &Command{
		Subs: subs,
	}
}
