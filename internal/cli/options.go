package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/dzazaleo/layerforge/pkg/design"
	"github.com/dzazaleo/layerforge/pkg/source"
)

// parseRect parses a rectangle from "x,y,w,h" or the shorthand "wxh"
// (origin at zero). Used for --target and --source flags.
func parseRect(s string) (design.Rect, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return design.Rect{}, nil
	}

	if strings.Contains(s, "x") && !strings.Contains(s, ",") {
		parts := strings.SplitN(s, "x", 2)
		w, errW := strconv.ParseFloat(parts[0], 64)
		h, errH := strconv.ParseFloat(parts[1], 64)
		if errW != nil || errH != nil {
			return design.Rect{}, fmt.Errorf("invalid rect %q (expected WxH or x,y,w,h)", s)
		}
		return design.Rect{W: w, H: h}, nil
	}

	parts := strings.Split(s, ",")
	if len(parts) != 4 {
		return design.Rect{}, fmt.Errorf("invalid rect %q (expected WxH or x,y,w,h)", s)
	}
	vals := make([]float64, 4)
	for i, p := range parts {
		v, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return design.Rect{}, fmt.Errorf("invalid rect component %q in %q", p, s)
		}
		vals[i] = v
	}
	return design.Rect{X: vals[0], Y: vals[1], W: vals[2], H: vals[3]}, nil
}

// loadInputs reads the document plus optional strategy and feedback files.
func loadInputs(docPath, strategyPath, feedbackPath string) (*design.Document, *design.Strategy, *design.Feedback, error) {
	doc, err := source.ImportDocument(docPath)
	if err != nil {
		return nil, nil, nil, err
	}

	var strategy *design.Strategy
	if strategyPath != "" {
		strategy, err = source.ImportStrategy(strategyPath)
		if err != nil {
			return nil, nil, nil, err
		}
	}

	var feedback *design.Feedback
	if feedbackPath != "" {
		feedback, err = source.ImportFeedback(feedbackPath)
		if err != nil {
			return nil, nil, nil, err
		}
	}
	return doc, strategy, feedback, nil
}

// outputPath derives the output file path from the flag value, falling back
// to the input name with a new extension.
func outputPath(output, input, ext string) string {
	if output != "" {
		return output
	}
	base := strings.TrimSuffix(input, ".json")
	return base + "." + ext
}
