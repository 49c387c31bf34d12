package record

import (
	"strconv"
	"strings"

	"github.com/sgostarter/plotfeed/config"
	"github.com/spf13/cast"
)

const (
	clearWord  = "clear"
	replotWord = "replot"
)

type Parser interface {
	// ParseLine classifies one input line. seq is the zero-based
	// position of the line in the input and supplies the implicit
	// domain coordinate when no explicit domain is configured. ok is
	// false when a data-looking line does not match the configured
	// shape; such lines are skipped by callers.
	ParseLine(line string, seq uint64) (rec Record, ok bool)
}

func NewParser(cfg config.Config) Parser {
	return &parserImpl{
		cfg: cfg,
	}
}

type parserImpl struct {
	cfg config.Config
}

func (impl *parserImpl) ParseLine(line string, seq uint64) (rec Record, ok bool) {
	line = strings.TrimSpace(line)

	if line == "" || strings.HasPrefix(line, "#") {
		rec.Kind = KindComment
		ok = true

		return
	}

	switch line {
	case clearWord:
		rec.Kind = KindClear
		ok = true

		return
	case replotWord:
		rec.Kind = KindReplot
		ok = true

		return
	}

	tokens := strings.Fields(line)

	rec.Kind = KindData

	domainWidth := impl.cfg.DomainWidth()
	if len(tokens) < domainWidth+1 {
		return
	}

	if domainWidth > 0 {
		rec.Domain = make([]float64, 0, domainWidth)

		for _, token := range tokens[:domainWidth] {
			v, err := cast.ToFloat64E(token)
			if err != nil {
				return
			}

			rec.Domain = append(rec.Domain, v)
		}

		tokens = tokens[domainWidth:]
	} else {
		rec.Domain = []float64{float64(seq)}
	}

	// Implicit ids are scoped to the line: group n gets id n unless an
	// explicit id moved the counter.
	nextID := 0

	for len(tokens) > 0 {
		var group Group

		if impl.cfg.DataID {
			if _, err := cast.ToFloat64E(tokens[0]); err != nil {
				group.ID = tokens[0]
				tokens = tokens[1:]

				if n, err := strconv.Atoi(group.ID); err == nil {
					nextID = n + 1
				} else {
					nextID++
				}
			}
		}

		if group.ID == "" {
			group.ID = strconv.Itoa(nextID)
			nextID++
		}

		if len(tokens) < impl.cfg.ValuesPerPoint {
			return Record{Kind: KindData}, false
		}

		group.Values = make([]float64, 0, impl.cfg.ValuesPerPoint)

		for _, token := range tokens[:impl.cfg.ValuesPerPoint] {
			v, err := cast.ToFloat64E(token)
			if err != nil {
				return Record{Kind: KindData}, false
			}

			group.Values = append(group.Values, v)
		}

		tokens = tokens[impl.cfg.ValuesPerPoint:]

		rec.Groups = append(rec.Groups, group)
	}

	ok = true

	return
}
