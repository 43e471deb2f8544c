package source

import "strings"

// ParseArguments recovers the invocation arguments encoded in an output
// filename. The expected shape is command_arg1_arg2.ext, for example
// ps_aux.txt or lsof_-i_-n.txt; flag values follow their flag as
// separate tokens (pslist_-u_bob.txt yields ["-u", "bob"]).
//
// A filename that does not start with the command name yields nil. A
// bare filename (ps.txt) yields an empty, non-nil slice: the command
// ran with no arguments. Unknown shapes degrade to the raw underscore
// tokens; this is metadata recovery, never an error.
func ParseArguments(command, filename string) []string {
	if !strings.HasPrefix(filename, command) {
		return nil
	}

	argsPart := filename[len(command):]

	// Strip the file extension, if any.
	if dot := strings.LastIndex(argsPart, "."); dot >= 0 {
		argsPart = argsPart[:dot]
	}

	argsPart = strings.TrimPrefix(argsPart, "_")
	if argsPart == "" {
		return []string{}
	}

	parts := strings.Split(argsPart, "_")

	args := make([]string, 0, len(parts))
	for i := 0; i < len(parts); i++ {
		arg := parts[i]
		args = append(args, arg)

		// A flag keeps its value token adjacent.
		if strings.HasPrefix(arg, "-") && i+1 < len(parts) && !strings.HasPrefix(parts[i+1], "-") {
			i++
			args = append(args, parts[i])
		}
	}

	return args
}
