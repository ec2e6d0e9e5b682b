package output

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
)

// JSON writes data as JSON to stdout
func JSON(data any) error {
	return JSONTo(os.Stdout, data)
}

// JSONTo writes data as indented JSON to the given writer
func JSONTo(w io.Writer, data any) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(data)
}

// JSONCompactTo writes data as compact JSON to the given writer
func JSONCompactTo(w io.Writer, data any) error {
	return json.NewEncoder(w).Encode(data)
}

// Output writes data in the specified format
func Output(format string, cats Categories, data any) error {
	return OutputTo(os.Stdout, format, cats, data)
}

// OutputTo writes data in the specified format to the given writer
func OutputTo(w io.Writer, format string, cats Categories, data any) error {
	switch format {
	case "json":
		return JSONTo(w, data)
	case "table", "":
		return TableTo(w, cats, data)
	default:
		return fmt.Errorf("unknown output format: %s", format)
	}
}
