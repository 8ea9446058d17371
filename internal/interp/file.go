package interp

import (
	"io"
	"os"
	"strings"

	"github.com/cwbudde/go-earl/internal/lexer"
)

// openFile implements the `open(path, mode)` intrinsic. The mode string
// is any combination of 'r', 'w', and 'b'; any other character is an
// error, as is opening a missing file for read.
func openFile(pathV, modeV Value, pos lexer.Position) (Value, error) {
	path, ok := pathV.(*Str)
	if !ok {
		return nil, typeError(pos, "open expects a str path, got %s", pathV.Type())
	}
	mode, ok := modeV.(*Str)
	if !ok {
		return nil, typeError(pos, "open expects a str mode, got %s", modeV.Type())
	}

	var read, write bool
	for i := 0; i < len(mode.Value); i++ {
		switch mode.Value[i] {
		case 'r':
			read = true
		case 'w':
			write = true
		case 'b':
			// binary is a no-op on POSIX; accepted for mode-string parity
		default:
			return nil, typeError(pos, "invalid file mode character %q in %q", string(mode.Value[i]), mode.Value)
		}
	}
	if !read && !write {
		return nil, typeError(pos, "file mode %q must contain 'r' or 'w'", mode.Value)
	}

	flag := 0
	switch {
	case read && write:
		flag = os.O_RDWR | os.O_CREATE
	case write:
		flag = os.O_WRONLY | os.O_CREATE | os.O_TRUNC
	default:
		flag = os.O_RDONLY
	}

	f, err := os.OpenFile(path.Value, flag, 0o644)
	if err != nil {
		return nil, NewError(pos, KindFatal, "cannot open %q: %s", path.Value, err.Error())
	}

	file := &File{Path: path.Value, Handle: f}
	if read {
		file.Reader = f
	}
	if write {
		file.Writer = f
	}
	return file, nil
}

// dispatchFileMember handles the File member family: read, write,
// writelines, dump, close. Every member fails on a closed file; close
// itself also fails when called twice.
func (in *Interpreter) dispatchFileMember(receiver Value, name string, args []Value, pos lexer.Position) EvalResult {
	f, ok := receiver.(*File)
	if !ok {
		return memberTypeErr(pos, receiver, name)
	}
	if f.Closed {
		return EvalResult{Value: NewError(pos, KindFatal, "%s() on closed file %q", name, f.Path)}
	}

	switch name {
	case "read":
		if f.Reader == nil {
			return EvalResult{Value: NewError(pos, KindFatal, "file %q is not open for reading", f.Path)}
		}
		data, err := io.ReadAll(f.Reader)
		if err != nil {
			return EvalResult{Value: NewError(pos, KindFatal, "read from %q failed: %s", f.Path, err.Error())}
		}
		return EvalResult{Value: &Str{Value: string(data)}, Class: ClassIntrinsicMemberFunction}

	case "write":
		if len(args) != 1 {
			return memberArityErr(pos, "write", 1, len(args))
		}
		return in.fileWrite(f, args[0], pos)

	case "writelines":
		if len(args) != 1 {
			return memberArityErr(pos, "writelines", 1, len(args))
		}
		lines, ok := args[0].(*List)
		if !ok {
			return EvalResult{Value: NewError(pos, KindType, "writelines expects a list, got %s", args[0].Type())}
		}
		for _, line := range lines.Elements {
			if res := in.fileWrite(f, line, pos); isError(res.Value) {
				return res
			}
			if res := in.fileWrite(f, &Str{Value: "\n"}, pos); isError(res.Value) {
				return res
			}
		}
		return EvalResult{Value: theUnit, Class: ClassIntrinsicMemberFunction}

	case "dump":
		seeker, ok := f.Handle.(io.Seeker)
		if ok {
			if _, err := seeker.Seek(0, io.SeekStart); err != nil {
				return EvalResult{Value: NewError(pos, KindFatal, "seek in %q failed: %s", f.Path, err.Error())}
			}
		}
		if f.Reader == nil {
			return EvalResult{Value: NewError(pos, KindFatal, "file %q is not open for reading", f.Path)}
		}
		if _, err := io.Copy(in.Stdout, f.Reader); err != nil {
			return EvalResult{Value: NewError(pos, KindFatal, "dump of %q failed: %s", f.Path, err.Error())}
		}
		return EvalResult{Value: theUnit, Class: ClassIntrinsicMemberFunction}

	case "close":
		if err := f.Handle.Close(); err != nil {
			return EvalResult{Value: NewError(pos, KindFatal, "close of %q failed: %s", f.Path, err.Error())}
		}
		f.Closed = true
		return EvalResult{Value: theUnit, Class: ClassIntrinsicMemberFunction}
	}
	return memberTypeErr(pos, receiver, name)
}

// fileWrite appends one Int, Char, or Str value to f.
func (in *Interpreter) fileWrite(f *File, v Value, pos lexer.Position) EvalResult {
	if f.Writer == nil {
		return EvalResult{Value: NewError(pos, KindFatal, "file %q is not open for writing", f.Path)}
	}
	var text string
	switch t := v.(type) {
	case *Int, *Char, *Str:
		text = t.String()
	default:
		return EvalResult{Value: NewError(pos, KindType, "write accepts int, char, or str, got %s", v.Type())}
	}
	if _, err := io.Copy(f.Writer, strings.NewReader(text)); err != nil {
		return EvalResult{Value: NewError(pos, KindFatal, "write to %q failed: %s", f.Path, err.Error())}
	}
	return EvalResult{Value: theUnit, Class: ClassIntrinsicMemberFunction}
}
