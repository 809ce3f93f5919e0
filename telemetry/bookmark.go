package telemetry

import (
	"fmt"
	"log/slog"
)

// BookmarkType identifies the type of bookmark.
type BookmarkType string

const (
	BookmarkSchoolingOnset BookmarkType = "schooling_onset"
	BookmarkMillingOnset   BookmarkType = "milling_onset"
	BookmarkFeedingFrenzy  BookmarkType = "feeding_frenzy"
	BookmarkFlockCrash     BookmarkType = "flock_crash"
	BookmarkFlockExtinct   BookmarkType = "flock_extinct"
)

// Bookmark represents an automatically triggered bookmark.
type Bookmark struct {
	Type        BookmarkType `csv:"type"`
	Tick        int32        `csv:"tick"`
	Description string       `csv:"description"`
}

// LogBookmark logs the bookmark using slog.
func (b Bookmark) LogBookmark() {
	slog.Info("bookmark",
		"type", string(b.Type),
		"tick", b.Tick,
		"description", b.Description,
	)
}

// BookmarkDetector detects interesting moments in the simulation.
type BookmarkDetector struct {
	// Rolling history (circular buffer)
	history     []WindowStats
	historySize int
	historyIdx  int
	historyFull bool

	schoolingThreshold float64
	millingThreshold   float64

	// State tracking
	recentFishPeak int  // peak fish count since the last crash
	schooling      bool // polarization currently above threshold
	milling        bool // milling index currently above threshold
	hadFish        bool // any fish seen, including the starting flock
	extinct        bool
}

// NewBookmarkDetector creates a detector with the given history size and
// the polarization / milling thresholds that mark an onset. initialFish
// seeds the fish peak so a crash or extinction inside the first window
// is still reported.
func NewBookmarkDetector(historySize int, schoolingThreshold, millingThreshold float64, initialFish int) *BookmarkDetector {
	if historySize < 3 {
		historySize = 3 // minimum for rolling averages
	}
	return &BookmarkDetector{
		history:            make([]WindowStats, historySize),
		historySize:        historySize,
		schoolingThreshold: schoolingThreshold,
		millingThreshold:   millingThreshold,
		recentFishPeak:     max(initialFish, 0),
		hadFish:            initialFish > 0,
	}
}

// Check analyzes the latest stats and returns any triggered bookmarks.
func (bd *BookmarkDetector) Check(stats WindowStats) []Bookmark {
	var bookmarks []Bookmark

	if b := bd.checkSchoolingOnset(stats); b != nil {
		bookmarks = append(bookmarks, *b)
	}
	if b := bd.checkMillingOnset(stats); b != nil {
		bookmarks = append(bookmarks, *b)
	}

	if bd.historyFull || bd.historyIdx > 0 {
		// Feeding frenzy: eaten > 2x rolling average
		if b := bd.checkFeedingFrenzy(stats); b != nil {
			bookmarks = append(bookmarks, *b)
		}
	}

	// Flock crash: dropped >30% from recent peak
	if b := bd.checkFlockCrash(stats); b != nil {
		bookmarks = append(bookmarks, *b)
	}

	if b := bd.checkFlockExtinct(stats); b != nil {
		bookmarks = append(bookmarks, *b)
	}

	bd.addToHistory(stats)

	if stats.FishCount > bd.recentFishPeak {
		bd.recentFishPeak = stats.FishCount
	}

	return bookmarks
}

func (bd *BookmarkDetector) addToHistory(stats WindowStats) {
	bd.history[bd.historyIdx] = stats
	bd.historyIdx = (bd.historyIdx + 1) % bd.historySize
	if bd.historyIdx == 0 {
		bd.historyFull = true
	}
}

func (bd *BookmarkDetector) getHistory() []WindowStats {
	if bd.historyFull {
		return bd.history
	}
	return bd.history[:bd.historyIdx]
}

func (bd *BookmarkDetector) checkSchoolingOnset(stats WindowStats) *Bookmark {
	above := stats.FishCount > 0 && stats.PolarizationMean >= bd.schoolingThreshold
	was := bd.schooling
	bd.schooling = above
	if !above || was {
		return nil
	}
	return &Bookmark{
		Type:        BookmarkSchoolingOnset,
		Tick:        stats.WindowEndTick,
		Description: fmt.Sprintf("Mean polarization %.2f reached threshold %.2f", stats.PolarizationMean, bd.schoolingThreshold),
	}
}

func (bd *BookmarkDetector) checkMillingOnset(stats WindowStats) *Bookmark {
	above := stats.FishCount > 0 && stats.MillingMean >= bd.millingThreshold
	was := bd.milling
	bd.milling = above
	if !above || was {
		return nil
	}
	return &Bookmark{
		Type:        BookmarkMillingOnset,
		Tick:        stats.WindowEndTick,
		Description: fmt.Sprintf("Mean milling index %.2f reached threshold %.2f", stats.MillingMean, bd.millingThreshold),
	}
}

func (bd *BookmarkDetector) checkFeedingFrenzy(stats WindowStats) *Bookmark {
	history := bd.getHistory()
	if len(history) < 3 {
		return nil
	}

	var total int
	for _, h := range history {
		total += h.Eaten
	}
	avg := float64(total) / float64(len(history))
	if avg == 0 {
		return nil
	}

	if float64(stats.Eaten) > avg*2.0 && stats.Eaten >= 2 {
		return &Bookmark{
			Type:        BookmarkFeedingFrenzy,
			Tick:        stats.WindowEndTick,
			Description: fmt.Sprintf("%d fish eaten, %.1fx average (%.2f)", stats.Eaten, float64(stats.Eaten)/avg, avg),
		}
	}

	return nil
}

func (bd *BookmarkDetector) checkFlockCrash(stats WindowStats) *Bookmark {
	if bd.recentFishPeak == 0 {
		return nil
	}

	dropPercent := 1.0 - float64(stats.FishCount)/float64(bd.recentFishPeak)
	if dropPercent > 0.30 && stats.FishCount <= bd.recentFishPeak-5 {
		// Reset peak after crash
		oldPeak := bd.recentFishPeak
		bd.recentFishPeak = stats.FishCount

		return &Bookmark{
			Type:        BookmarkFlockCrash,
			Tick:        stats.WindowEndTick,
			Description: fmt.Sprintf("Flock crashed %.0f%% from peak %d to %d", dropPercent*100, oldPeak, stats.FishCount),
		}
	}

	return nil
}

func (bd *BookmarkDetector) checkFlockExtinct(stats WindowStats) *Bookmark {
	if stats.FishCount > 0 {
		bd.hadFish = true
	}
	if bd.extinct || !bd.hadFish || stats.FishCount > 0 {
		return nil
	}
	bd.extinct = true
	return &Bookmark{
		Type:        BookmarkFlockExtinct,
		Tick:        stats.WindowEndTick,
		Description: "Every fish has been eaten",
	}
}
