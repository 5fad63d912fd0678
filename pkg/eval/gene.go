package eval

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// GeneIndex names one tunable integer constant in a Gene vector. The set
// covers material scaling, mobility, king safety, pawn structure and
// endgame-specific terms; Eval.Evaluate is a function purely of these named
// constants plus the position, so a Gene loaded from a different file
// changes playing style without a code change.
type GeneIndex int

const (
	GPawnValue GeneIndex = iota
	GKnightValue
	GBishopValue
	GRookValue
	GQueenValue
	GBishopPairBonus
	GKnightPairPenalty
	GRookPairPenalty
	GTempoBonus
	GRookOpenFileBonus
	GRookSemiOpenFileBonus
	GRookOnSeventhBonus
	GQueenOnSeventhBonus
	GDoubledPawnPenalty
	GIsolatedPawnPenalty
	GBackwardPawnPenalty
	GPassedPawnBonusRank2
	GPassedPawnBonusRank3
	GPassedPawnBonusRank4
	GPassedPawnBonusRank5
	GPassedPawnBonusRank6
	GPassedPawnBonusRank7
	GConnectedPassedPawnBonus
	GKnightMobilityUnit
	GBishopMobilityUnit
	GRookMobilityUnit
	GQueenMobilityUnit
	GKingShieldBonus
	GKingOpenFilePenalty
	GCenterControlBonus
	GKnightOutpostBonus
	GBishopOutpostBonus
	GTrappedBishopPenalty
	GTrappedRookPenalty
	GEarlyQueenDevelopmentPenalty
	GUndevelopedMinorPenalty
	GCastlingRightsBonus
	GHasCastledBonus
	GMinorBehindPawnBonus
	GRookBehindPassedPawnBonus
	GKingCornerDistanceWeight
	GKingProximityWeight
	GEndgameKingCentralizationBonus
	GDrawishMaterialPenalty
	GNoiseLimitMillipawns
	GCheckExtensionPlies
	GMaxCheckDepth
	GWinDelayPenalty
	GOopsModeMargin
	GOopsModeExtensionPercent

	GKingOppositionBonus
	GConnectedRooksBonus
	GKingAttackUnitPawn
	GKingAttackUnitKnight
	GKingAttackUnitBishop
	GKingAttackUnitRook
	GKingAttackUnitQueen
	GKingDefenderUnitKnight
	GKingDefenderUnitBishop
	GKingDefenderUnitRook
	GKingDefenderUnitQueen
	GKingSafetyScale
	GKingAttackTier0Bonus
	GKingAttackTier1Bonus
	GKingAttackTier2Bonus
	GKingAttackTier3Bonus
	GPassedPawnBlockerPenaltyRank2
	GPassedPawnBlockerPenaltyRank3
	GPassedPawnBlockerPenaltyRank4
	GPassedPawnBlockerPenaltyRank5
	GPassedPawnBlockerPenaltyRank6
	GPassedPawnBlockerPenaltyRank7
	GMatingNetEdgeBonus
	GMatingNetCornerBonus
	GMatingNetKnightTempoPenalty
	GOutpostDefendedByPawnBonus
	GRookOpenFileKingAttackBonus
	GBishopPairEndgameBonus
	GCenterPawnDuoBonus
	GKnightRimPenalty
	GBishopLongDiagonalBonus
	GUnstoppablePasserBonus

	NumGenes
)

type geneSpec struct {
	Name               string
	Default, Min, Max int32
}

var geneSpecs = [NumGenes]geneSpec{
	GPawnValue:                      {"PawnValue", 100, 50, 200},
	GKnightValue:                    {"KnightValue", 320, 150, 500},
	GBishopValue:                    {"BishopValue", 330, 150, 500},
	GRookValue:                      {"RookValue", 500, 300, 800},
	GQueenValue:                     {"QueenValue", 900, 600, 1400},
	GBishopPairBonus:                {"BishopPairBonus", 30, 0, 100},
	GKnightPairPenalty:              {"KnightPairPenalty", 8, 0, 50},
	GRookPairPenalty:                {"RookPairPenalty", 8, 0, 50},
	GTempoBonus:                     {"TempoBonus", 10, 0, 50},
	GRookOpenFileBonus:              {"RookOpenFileBonus", 20, 0, 100},
	GRookSemiOpenFileBonus:          {"RookSemiOpenFileBonus", 10, 0, 100},
	GRookOnSeventhBonus:             {"RookOnSeventhBonus", 20, 0, 100},
	GQueenOnSeventhBonus:            {"QueenOnSeventhBonus", 10, 0, 100},
	GDoubledPawnPenalty:             {"DoubledPawnPenalty", 10, 0, 50},
	GIsolatedPawnPenalty:            {"IsolatedPawnPenalty", 12, 0, 50},
	GBackwardPawnPenalty:            {"BackwardPawnPenalty", 8, 0, 50},
	GPassedPawnBonusRank2:           {"PassedPawnBonusRank2", 5, 0, 50},
	GPassedPawnBonusRank3:           {"PassedPawnBonusRank3", 10, 0, 80},
	GPassedPawnBonusRank4:           {"PassedPawnBonusRank4", 20, 0, 120},
	GPassedPawnBonusRank5:           {"PassedPawnBonusRank5", 35, 0, 160},
	GPassedPawnBonusRank6:           {"PassedPawnBonusRank6", 60, 0, 220},
	GPassedPawnBonusRank7:           {"PassedPawnBonusRank7", 100, 0, 300},
	GConnectedPassedPawnBonus:       {"ConnectedPassedPawnBonus", 15, 0, 100},
	GKnightMobilityUnit:             {"KnightMobilityUnit", 4, 0, 20},
	GBishopMobilityUnit:             {"BishopMobilityUnit", 3, 0, 20},
	GRookMobilityUnit:               {"RookMobilityUnit", 2, 0, 20},
	GQueenMobilityUnit:              {"QueenMobilityUnit", 1, 0, 20},
	GKingShieldBonus:                {"KingShieldBonus", 10, 0, 50},
	GKingOpenFilePenalty:            {"KingOpenFilePenalty", 20, 0, 100},
	GCenterControlBonus:             {"CenterControlBonus", 5, 0, 30},
	GKnightOutpostBonus:             {"KnightOutpostBonus", 18, 0, 80},
	GBishopOutpostBonus:             {"BishopOutpostBonus", 12, 0, 80},
	GTrappedBishopPenalty:           {"TrappedBishopPenalty", 40, 0, 150},
	GTrappedRookPenalty:             {"TrappedRookPenalty", 30, 0, 150},
	GEarlyQueenDevelopmentPenalty:   {"EarlyQueenDevelopmentPenalty", 15, 0, 80},
	GUndevelopedMinorPenalty:        {"UndevelopedMinorPenalty", 8, 0, 50},
	GCastlingRightsBonus:            {"CastlingRightsBonus", 5, 0, 30},
	GHasCastledBonus:                {"HasCastledBonus", 15, 0, 60},
	GMinorBehindPawnBonus:           {"MinorBehindPawnBonus", 4, 0, 30},
	GRookBehindPassedPawnBonus:      {"RookBehindPassedPawnBonus", 10, 0, 60},
	GKingCornerDistanceWeight:       {"KingCornerDistanceWeight", 10, 0, 50},
	GKingProximityWeight:            {"KingProximityWeight", 6, 0, 50},
	GEndgameKingCentralizationBonus: {"EndgameKingCentralizationBonus", 8, 0, 50},
	GDrawishMaterialPenalty:         {"DrawishMaterialPenalty", 20, 0, 100},
	GNoiseLimitMillipawns:           {"NoiseLimitMillipawns", 0, 0, 5000},
	GCheckExtensionPlies:            {"CheckExtensionPlies", 1, 0, 2},
	GMaxCheckDepth:                  {"MaxCheckDepth", 2, 0, 6},
	GWinDelayPenalty:                {"WinDelayPenalty", 1, 0, 100},
	GOopsModeMargin:                 {"OopsModeMargin", 50, 0, 500},
	GOopsModeExtensionPercent:       {"OopsModeExtensionPercent", 50, 0, 200},

	GKingOppositionBonus:         {"KingOppositionBonus", 10, 0, 50},
	GConnectedRooksBonus:         {"ConnectedRooksBonus", 12, 0, 60},
	GKingAttackUnitPawn:          {"KingAttackUnitPawn", 2, 0, 20},
	GKingAttackUnitKnight:        {"KingAttackUnitKnight", 4, 0, 30},
	GKingAttackUnitBishop:        {"KingAttackUnitBishop", 4, 0, 30},
	GKingAttackUnitRook:          {"KingAttackUnitRook", 6, 0, 40},
	GKingAttackUnitQueen:         {"KingAttackUnitQueen", 12, 0, 80},
	GKingDefenderUnitKnight:      {"KingDefenderUnitKnight", 3, 0, 30},
	GKingDefenderUnitBishop:      {"KingDefenderUnitBishop", 3, 0, 30},
	GKingDefenderUnitRook:        {"KingDefenderUnitRook", 2, 0, 30},
	GKingDefenderUnitQueen:       {"KingDefenderUnitQueen", 4, 0, 30},
	GKingSafetyScale:             {"KingSafetyScale", 100, 0, 300},
	GKingAttackTier0Bonus:        {"KingAttackTier0Bonus", 0, 0, 20},
	GKingAttackTier1Bonus:        {"KingAttackTier1Bonus", 10, 0, 60},
	GKingAttackTier2Bonus:        {"KingAttackTier2Bonus", 25, 0, 120},
	GKingAttackTier3Bonus:        {"KingAttackTier3Bonus", 45, 0, 200},
	GPassedPawnBlockerPenaltyRank2: {"PassedPawnBlockerPenaltyRank2", 3, 0, 40},
	GPassedPawnBlockerPenaltyRank3: {"PassedPawnBlockerPenaltyRank3", 6, 0, 60},
	GPassedPawnBlockerPenaltyRank4: {"PassedPawnBlockerPenaltyRank4", 10, 0, 80},
	GPassedPawnBlockerPenaltyRank5: {"PassedPawnBlockerPenaltyRank5", 16, 0, 100},
	GPassedPawnBlockerPenaltyRank6: {"PassedPawnBlockerPenaltyRank6", 25, 0, 140},
	GPassedPawnBlockerPenaltyRank7: {"PassedPawnBlockerPenaltyRank7", 40, 0, 200},
	GMatingNetEdgeBonus:          {"MatingNetEdgeBonus", 10, 0, 50},
	GMatingNetCornerBonus:        {"MatingNetCornerBonus", 15, 0, 60},
	GMatingNetKnightTempoPenalty: {"MatingNetKnightTempoPenalty", 8, 0, 40},
	GOutpostDefendedByPawnBonus:  {"OutpostDefendedByPawnBonus", 10, 0, 50},
	GRookOpenFileKingAttackBonus: {"RookOpenFileKingAttackBonus", 12, 0, 60},
	GBishopPairEndgameBonus:      {"BishopPairEndgameBonus", 12, 0, 60},
	GCenterPawnDuoBonus:          {"CenterPawnDuoBonus", 8, 0, 40},
	GKnightRimPenalty:            {"KnightRimPenalty", 10, 0, 40},
	GBishopLongDiagonalBonus:     {"BishopLongDiagonalBonus", 10, 0, 40},
	GUnstoppablePasserBonus:      {"UnstoppablePasserBonus", 50, 0, 200},
}

// Gene is a vector of tunable integer constants, loaded from a plain
// key=value text file (one constant per line). A default vector is always
// well-formed; Load only ever overrides named entries, so a partial file is
// valid and leaves the rest at their defaults.
type Gene struct {
	values [NumGenes]int32
}

// DefaultGene returns the gene vector with every constant at its default.
func DefaultGene() *Gene {
	g := &Gene{}
	for i, s := range geneSpecs {
		g.values[i] = s.Default
	}
	return g
}

func (g *Gene) Get(i GeneIndex) int32 {
	return g.values[i]
}

// Load parses "Name=value" lines (blank lines and lines starting with '#'
// ignored) on top of the default vector.
func Load(r io.Reader) (*Gene, error) {
	byName := make(map[string]GeneIndex, NumGenes)
	for i, s := range geneSpecs {
		byName[s.Name] = GeneIndex(i)
	}

	g := DefaultGene()
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		parts := strings.SplitN(line, "=", 2)
		if len(parts) != 2 {
			return nil, fmt.Errorf("gene: malformed line %q", line)
		}
		name := strings.TrimSpace(parts[0])
		idx, ok := byName[name]
		if !ok {
			return nil, fmt.Errorf("gene: unknown constant %q", name)
		}
		v, err := strconv.Atoi(strings.TrimSpace(parts[1]))
		if err != nil {
			return nil, fmt.Errorf("gene: bad value for %q: %w", name, err)
		}
		spec := geneSpecs[idx]
		if int32(v) < spec.Min || int32(v) > spec.Max {
			return nil, fmt.Errorf("gene: %q=%d out of range [%d,%d]", name, v, spec.Min, spec.Max)
		}
		g.values[idx] = int32(v)
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	return g, nil
}

// Save writes the gene vector in the same key=value format Load reads.
func (g *Gene) Save(w io.Writer) error {
	for i, s := range geneSpecs {
		if _, err := fmt.Fprintf(w, "%s=%d\n", s.Name, g.values[i]); err != nil {
			return err
		}
	}
	return nil
}
