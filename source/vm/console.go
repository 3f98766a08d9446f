package vm

import "fmt"

// defaultConsole is where `print`ed lines go when no Hub/REPL has called
// SetConsole to redirect them.
func defaultConsole(line string) {
	fmt.Println(line)
}
