package manifest

import (
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"
)

// Assemble builds the manifest from localized sources and lists the assets
// it references. Display values that are not text are logged to log, which
// may be nil, and left empty.
func Assemble(src Sources, log logger) (*Manifest, []Asset, error) {
	var (
		ops     collection[operatorSource]
		seasons seasonsSource
		ranks   ranksSource
	)

	for _, d := range []struct {
		kind string
		dst  any
	}{
		{"operators", &ops},
		{"seasons", &seasons},
		{"ranks", &ranks},
	} {
		raw, ok := src[d.kind]
		if !ok || raw == nil {
			return nil, nil, fmt.Errorf("%w: %s", ErrMissingSource, d.kind)
		}
		if err := decodeInto(raw, d.dst); err != nil {
			return nil, nil, fmt.Errorf("decode %s manifest: %w", d.kind, err)
		}
	}

	b := &builder{log: log, m: &Manifest{
		Operators: map[string]Operator{},
		Seasons:   map[string]Season{},
		Divisions: map[string]Division{},
		Ranks:     map[string]Rank{},
	}}

	b.operators(ops)
	b.seasons(seasons)
	b.ranks(ranks)

	return b.m, b.assets, nil
}

type builder struct {
	log    logger
	m      *Manifest
	assets []Asset
}

func (b *builder) text(t text, what string, args ...any) string {
	if t.odd != nil && b.log != nil {
		b.log.Debugf("Ignoring non-text %s: %s", fmt.Sprintf(what, args...), t.odd)
	}
	return t.s
}

func (b *builder) asset(url, local string) string {
	if url != "" {
		b.assets = append(b.assets, Asset{URL: url, Local: local})
	}
	return local
}

type orderedOp struct {
	id  string
	pos uint64
	ok  bool
	src operatorSource
}

func (b *builder) operators(ops collection[operatorSource]) {
	list := make([]orderedOp, 0, ops.Len())
	for _, key := range ops.Keys() {
		op := ops.Get(key)
		id := b.text(op.ID, "id of operator %s", key)
		if id == "" {
			id = key
		}
		pos, ok := DisplayPosition(op.Index)
		list = append(list, orderedOp{id: id, pos: pos, ok: ok, src: op})
	}

	sort.SliceStable(list, func(i, j int) bool {
		a, c := list[i], list[j]
		if a.ok != c.ok {
			return a.ok
		}
		if a.pos != c.pos {
			return a.pos < c.pos
		}
		return a.id < c.id
	})

	b.m.AllOperators = make([]string, 0, len(list))
	b.m.Attackers = []string{}
	b.m.Defenders = []string{}

	for _, o := range list {
		b.m.AllOperators = append(b.m.AllOperators, o.id)
		switch o.src.Category {
		case "atk":
			b.m.Attackers = append(b.m.Attackers, o.id)
		case "def":
			b.m.Defenders = append(b.m.Defenders, o.id)
		}

		dir := "operators/" + o.id
		category := "defend"
		if o.src.Category == "atk" {
			category = "attack"
		}

		b.m.Operators[o.id] = Operator{
			Category:  category,
			Name:      b.text(o.src.Name, "name of operator %s", o.id),
			Unit:      b.text(o.src.CTU, "unit of operator %s", o.id),
			StatID:    b.text(o.src.UniqueStatistic.PVP.StatisticID, "statistic id of operator %s", o.id),
			StatLabel: b.text(o.src.UniqueStatistic.PVP.Label, "statistic label of operator %s", o.id),
			Large:     b.asset(o.src.Figure.Large, dir+"/large.png"),
			Small:     b.asset(o.src.Figure.Small, dir+"/small.png"),
			Mask:      b.asset(o.src.Mask, dir+"/mask.png"),
			Icon:      b.asset(o.src.Badge, dir+"/icon.png"),
		}
	}
}

func (b *builder) seasons(src seasonsSource) {
	b.m.CurrentSeason = src.LatestSeason
	b.m.AllSeasons = []string{}

	for _, id := range src.Seasons.Keys() {
		s := src.Seasons.Get(id)
		key := "s" + id
		b.m.AllSeasons = append(b.m.AllSeasons, key)
		b.m.Seasons[key] = Season{
			Name:       b.text(s.Name, "name of season %s", key),
			Background: b.asset(s.Background, "seasons/"+key+"/background.jpg"),
		}
	}
}

func (b *builder) ranks(src ranksSource) {
	b.m.AllDivisions = []string{}
	b.m.AllRanks = []string{}

	for _, k := range src.Seasons.Keys() {
		season := src.Seasons.Get(k)
		sid := b.text(season.ID, "id of rank season %s", k)
		if sid == "" {
			sid = k
		}
		skey := "s" + sid

		divKeys := make([]string, 0, season.Divisions.Len())
		for _, id := range season.Divisions.Keys() {
			d := season.Divisions.Get(id)
			dkey := skey + "-d" + id
			divKeys = append(divKeys, dkey)

			rankKeys := []string{}
			for _, r := range d.Ranks.Keys() {
				rankKeys = append(rankKeys, skey+"-r"+r)
			}

			b.m.Divisions[dkey] = Division{Name: b.text(d.Name, "name of division %s", dkey), Ranks: rankKeys}
			b.m.AllDivisions = append(b.m.AllDivisions, dkey)
		}

		if s, ok := b.m.Seasons[skey]; ok {
			s.Divisions = divKeys
			b.m.Seasons[skey] = s
		}

		for _, id := range season.Ranks.Keys() {
			r := season.Ranks.Get(id)
			rkey := skey + "-r" + id

			icon := r.Images.HD
			if icon == "" {
				icon = r.Images.Default
			}

			var rng rankRange
			if r.Range != nil {
				rng = *r.Range
			}

			b.m.Ranks[rkey] = Rank{
				Name: b.text(r.Name, "name of rank %s", rkey),
				Min:  rng.Min,
				Max:  rng.Max,
				Icon: b.asset(icon, "seasons/"+skey+"/ranks/r"+id+"/icon.svg"),
			}
			b.m.AllRanks = append(b.m.AllRanks, rkey)
		}
	}
}

// DisplayPosition decodes an operator index such as "2:A" into its sort
// position: the colon separated parts are reversed, joined and read as hex.
// Only the leading hex digits count. ok is false when there are none.
func DisplayPosition(index string) (pos uint64, ok bool) {
	parts := strings.Split(strings.TrimSpace(index), ":")
	for i, j := 0, len(parts)-1; i < j; i, j = i+1, j-1 {
		parts[i], parts[j] = parts[j], parts[i]
	}
	joined := strings.TrimSpace(strings.Join(parts, ""))

	n := 0
	for n < len(joined) && isHex(joined[n]) {
		n++
	}
	if n == 0 {
		return math.MaxUint64, false
	}

	v, err := strconv.ParseUint(joined[:n], 16, 64)
	if err != nil {
		return math.MaxUint64, false
	}

	return v, true
}

func isHex(c byte) bool {
	return (c >= '0' && c <= '9') || (c >= 'a' && c <= 'f') || (c >= 'A' && c <= 'F')
}
