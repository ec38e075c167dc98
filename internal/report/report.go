package report

import (
	"fmt"
	"io"
	"strconv"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"

	"github.com/courtside/volleymetrics/internal/model"
	"github.com/courtside/volleymetrics/internal/scoring"
	"github.com/courtside/volleymetrics/internal/stats"
)

func newTable(w io.Writer) *tablewriter.Table {
	return tablewriter.NewTable(w, tablewriter.WithConfig(tablewriter.Config{
		Row: tw.CellConfig{
			Alignment: tw.CellAlignment{Global: tw.AlignRight},
		},
		Header: tw.CellConfig{
			Alignment: tw.CellAlignment{Global: tw.AlignCenter},
		},
	}))
}

// effString formats an efficiency value, or "—" when the category has no
// data.
func effString(c *stats.CategoryStats) string {
	eff, ok := c.Efficiency()
	if !ok {
		return "—"
	}
	return fmt.Sprintf("%.2f", eff)
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

// PrintMatchSummary prints a one-line header for the match with its
// derived final score.
func PrintMatchSummary(w io.Writer, m model.Match, final scoring.Score) {
	opponent := m.Opponent
	if opponent == "" {
		opponent = "?"
	}
	fmt.Fprintf(w, "\n%s  |  Date: %s  |  vs %s  |  Score: %d – %d  |  ID: %s\n\n",
		m.Title, m.Date, opponent, final.Our, final.Opp, shortID(m.ID))
}

// PrintTimeline prints one row per rally with the running score.
func PrintTimeline(w io.Writer, rows []scoring.TimelineRow) {
	table := newTable(w)
	table.Header("#", "RALLY", "EVENTS", "BEFORE", "AFTER", "WINNER", "HOW")

	for i, row := range rows {
		winner, how := "—", "unfinished"
		if row.Terminal != nil {
			winner = row.Terminal.Winner.String()
			how = row.Terminal.Desc
		}
		table.Append(
			strconv.Itoa(i+1),
			shortID(row.Rally.ID),
			strconv.Itoa(len(row.Rally.Events)),
			fmt.Sprintf("%d-%d", row.ScoreBefore.Our, row.ScoreBefore.Opp),
			fmt.Sprintf("%d-%d", row.ScoreAfter.Our, row.ScoreAfter.Opp),
			winner,
			how,
		)
	}
	table.Render()
}

// PrintEventLog prints every event of every rally, annotated with its
// resolved team and terminal status.
func PrintEventLog(w io.Writer, store *model.Store, match model.Match, rows []scoring.TimelineRow) {
	roster := scoring.RosterFor(match)
	table := newTable(w)
	table.Header("RALLY", "EVENT", "KIND", "ACTOR", "TEAM", "RESULT", "DETAIL", "TERMINAL")

	for _, row := range rows {
		for _, e := range row.Rally.Events {
			actor := "—"
			if e.ActorID != "" {
				actor = store.PlayerName(e.ActorID)
			}
			teamStr := "?"
			if team, ok := scoring.ResolveTeam(e, roster); ok {
				teamStr = team.String()
			}
			detail := ""
			switch {
			case e.Quality != "":
				detail = string(e.Quality)
			case e.Toss != "":
				detail = string(e.Toss)
			case e.AttackType != "":
				detail = string(e.AttackType)
			case e.Label != "":
				detail = e.Label
			}
			terminal := ""
			if t := scoring.TerminalFor(e, roster); t != nil {
				terminal = fmt.Sprintf("point %s", t.Winner)
			}
			table.Append(
				shortID(row.Rally.ID),
				shortID(e.ID),
				string(e.Kind),
				actor,
				teamStr,
				string(e.Result),
				detail,
				terminal,
			)
		}
	}
	table.Render()
}

// PrintPlayerStatsTable prints the all-time efficiency overview, one row
// per player.
func PrintPlayerStatsTable(w io.Writer, all []stats.PlayerStats) {
	table := newTable(w)
	table.Header("PLAYER", "MATCHES", "ATK_EFF", "ATK_N", "SRV_EFF", "SRV_N",
		"BLK_EFF", "BLK_N", "RCV_EFF", "RCV_N", "TOSS_EFF", "TOSS_N", "ERRORS")

	for i := range all {
		p := &all[i]
		table.Append(
			p.Name,
			strconv.Itoa(p.Matches),
			effString(&p.Attack), strconv.Itoa(p.Attack.Attempts),
			effString(&p.Serve), strconv.Itoa(p.Serve.Attempts),
			effString(&p.Block), strconv.Itoa(p.Block.Attempts),
			effString(&p.Reception), strconv.Itoa(p.Reception.Attempts),
			effString(&p.Toss), strconv.Itoa(p.Toss.Attempts),
			strconv.Itoa(p.TotalErrors),
		)
	}
	table.Render()
}

// categoryBuckets is the display order of result buckets per category.
var categoryBuckets = []struct {
	name    string
	buckets []string
	pick    func(*stats.PlayerStats) *stats.CategoryStats
}{
	{"spike attack", []string{"kill", "effective", "continue", "error"}, func(p *stats.PlayerStats) *stats.CategoryStats { return &p.Attack }},
	{"serve", []string{"ace", "effective", "in", "error"}, func(p *stats.PlayerStats) *stats.CategoryStats { return &p.Serve }},
	{"block", []string{"point", "effective", "touch", "error"}, func(p *stats.PlayerStats) *stats.CategoryStats { return &p.Block }},
	{"receive/dig", []string{"A", "B", "C", "error"}, func(p *stats.PlayerStats) *stats.CategoryStats { return &p.Reception }},
	{"toss", []string{"kill", "effective", "continue", "error"}, func(p *stats.PlayerStats) *stats.CategoryStats { return &p.Toss }},
}

// PrintPlayerBreakdown prints the per-bucket detail for one player.
func PrintPlayerBreakdown(w io.Writer, p stats.PlayerStats) {
	fmt.Fprintf(w, "\n%s  (%s)\n\n", p.Name, shortID(p.PlayerID))
	table := newTable(w)
	table.Header("CATEGORY", "N", "B1", "B2", "B3", "ERR", "EFF")

	for _, cat := range categoryBuckets {
		c := cat.pick(&p)
		row := []any{cat.name, strconv.Itoa(c.Attempts)}
		for _, b := range cat.buckets {
			row = append(row, fmt.Sprintf("%s:%d", b, c.Counts[b]))
		}
		row = append(row, effString(c))
		table.Append(row...)
	}
	table.Render()
}

// PrintRanking prints one metric's cross-player ranking. Entries below the
// minimum-attempts floor are listed after the ranked block with their
// position left blank; players without data close the table.
func PrintRanking(w io.Writer, metric stats.Metric, entries []stats.RankEntry, minAttempts int) {
	fmt.Fprintf(w, "\n--- %s ---\n\n", metric)
	table := newTable(w)
	table.Header("POS", "PLAYER", "N", "VALUE")

	pos := 0
	var smallSample, noData []stats.RankEntry
	for _, e := range entries {
		if !e.HasValue {
			noData = append(noData, e)
			continue
		}
		if metric != stats.MetricErrors && e.Attempts < minAttempts {
			smallSample = append(smallSample, e)
			continue
		}
		pos++
		table.Append(strconv.Itoa(pos), e.Name, strconv.Itoa(e.Attempts), rankValue(metric, e))
	}
	for _, e := range smallSample {
		table.Append("*", e.Name, strconv.Itoa(e.Attempts), rankValue(metric, e))
	}
	for _, e := range noData {
		table.Append("—", e.Name, strconv.Itoa(e.Attempts), "—")
	}
	table.Render()
	if len(smallSample) > 0 {
		fmt.Fprintf(w, "  * fewer than %d attempts\n", minAttempts)
	}
}

func rankValue(metric stats.Metric, e stats.RankEntry) string {
	if metric == stats.MetricErrors {
		return strconv.Itoa(int(e.Value))
	}
	return fmt.Sprintf("%.2f", e.Value)
}

// PrintTossCells prints the situational toss cross-tab, one row per
// non-empty cell with its top toss types by share.
func PrintTossCells(w io.Writer, cells []stats.TossCell, topN int) {
	table := newTable(w)
	table.Header("RECEIVE", "LEAD", "PHASE", "N", "TOP TOSSES")

	for i := range cells {
		c := &cells[i]
		quality := "unknown"
		if c.Quality != "" {
			quality = string(c.Quality)
		}
		top := ""
		for j, s := range c.Top(topN) {
			if j > 0 {
				top += ", "
			}
			top += fmt.Sprintf("%s %.0f%%", s.Toss, s.Share*100)
		}
		table.Append(quality, string(c.Lead), string(c.Phase), strconv.Itoa(c.Total), top)
	}
	table.Render()
}

// PrintTrendTable prints the per-match efficiency series for one player.
// Matches contributing no events to a metric show "—", not a zero.
func PrintTrendTable(w io.Writer, points []stats.TrendPoint) {
	table := newTable(w)
	table.Header("DATE", "MATCH", "ATK", "SRV", "BLK", "RCV", "TOSS")

	for i := range points {
		p := &points[i]
		table.Append(
			p.Date,
			p.Title,
			effString(&p.Attack),
			effString(&p.Serve),
			effString(&p.Block),
			effString(&p.Reception),
			effString(&p.Toss),
		)
	}
	table.Render()
}
