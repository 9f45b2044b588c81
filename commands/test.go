package commands

import (
	"errors"
	"fmt"
	"os"
	"path"
	"strconv"

	"github.com/josephlewis42/rshell/core/vos"
)

// Test evaluates a conditional expression, it's also installed as "[" in
// which case the last argument must be "]".
//
// https://pubs.opengroup.org/onlinepubs/9699919799/utilities/test.html
func Test(proc *vos.Proc) int {
	args := proc.Args()
	name := path.Base(args[0])
	args = args[1:]

	if name == "[" {
		if len(args) == 0 || args[len(args)-1] != "]" {
			fmt.Fprintf(proc.Stderr, "%s: missing `]'\n", name)
			return 2
		}
		args = args[:len(args)-1]
	}

	ok, err := evalTest(proc, args)
	switch {
	case err != nil:
		fmt.Fprintf(proc.Stderr, "%s: %v\n", name, err)
		return 2
	case ok:
		return 0
	default:
		return 1
	}
}

func evalTest(proc *vos.Proc, args []string) (bool, error) {
	switch len(args) {
	case 0:
		return false, nil
	case 1:
		return args[0] != "", nil
	case 2:
		if args[0] == "!" {
			ok, err := evalTest(proc, args[1:])
			return !ok, err
		}
		return evalUnary(proc, args[0], args[1])
	case 3:
		if isBinaryOperator(args[1]) {
			return evalBinary(args[0], args[1], args[2])
		}
		if args[0] == "!" {
			ok, err := evalTest(proc, args[1:])
			return !ok, err
		}
		return false, fmt.Errorf("%s: binary operator expected", args[1])
	case 4:
		if args[0] == "!" {
			ok, err := evalTest(proc, args[1:])
			return !ok, err
		}
	}
	return false, errors.New("too many arguments")
}

func evalUnary(proc *vos.Proc, op, operand string) (bool, error) {
	switch op {
	case "-z":
		return operand == "", nil
	case "-n":
		return operand != "", nil
	}

	var check func(os.FileInfo) bool
	switch op {
	case "-e":
		check = func(os.FileInfo) bool { return true }
	case "-f":
		check = func(fi os.FileInfo) bool { return fi.Mode().IsRegular() }
	case "-d":
		check = func(fi os.FileInfo) bool { return fi.IsDir() }
	case "-s":
		check = func(fi os.FileInfo) bool { return fi.Size() > 0 }
	default:
		return false, fmt.Errorf("%s: unary operator expected", op)
	}

	fi, err := proc.FS.Stat(operand)
	if err != nil {
		return false, nil
	}
	return check(fi), nil
}

var integerComparisons = map[string]func(a, b int64) bool{
	"-eq": func(a, b int64) bool { return a == b },
	"-ne": func(a, b int64) bool { return a != b },
	"-lt": func(a, b int64) bool { return a < b },
	"-le": func(a, b int64) bool { return a <= b },
	"-gt": func(a, b int64) bool { return a > b },
	"-ge": func(a, b int64) bool { return a >= b },
}

func isBinaryOperator(op string) bool {
	_, isInt := integerComparisons[op]
	return isInt || op == "=" || op == "!="
}

func evalBinary(left, op, right string) (bool, error) {
	switch op {
	case "=":
		return left == right, nil
	case "!=":
		return left != right, nil
	}

	a, err := strconv.ParseInt(left, 10, 64)
	if err != nil {
		return false, fmt.Errorf("%s: integer expression expected", left)
	}
	b, err := strconv.ParseInt(right, 10, 64)
	if err != nil {
		return false, fmt.Errorf("%s: integer expression expected", right)
	}
	return integerComparisons[op](a, b), nil
}
