package rules

import "fmt"

// Stage is one decision point in the construction of an action.
type Stage int

const (
	StageChooseAction Stage = iota
	StageChooseHandCard
	StageChooseOpponent
	StageChooseSourceColour
	StageChooseSourceSet
	StageChooseSourceCard
	StageChooseDestColour
	StageChooseDestSet
	StageChoosePayment
	// StageRespond is reserved for counter/rebuttal chains and never entered.
	StageRespond
	StageCommit
)

var stageNames = map[Stage]string{
	StageChooseAction:       "CHOOSE_ACTION",
	StageChooseHandCard:     "CHOOSE_HAND_CARD",
	StageChooseOpponent:     "CHOOSE_OPPONENT",
	StageChooseSourceColour: "CHOOSE_SOURCE_COLOUR",
	StageChooseSourceSet:    "CHOOSE_SOURCE_SET",
	StageChooseSourceCard:   "CHOOSE_SOURCE_CARD",
	StageChooseDestColour:   "CHOOSE_DEST_COLOUR",
	StageChooseDestSet:      "CHOOSE_DEST_SET",
	StageChoosePayment:      "CHOOSE_PAYMENT",
	StageRespond:            "RESPOND",
	StageCommit:             "COMMIT",
}

func (s Stage) String() string {
	if name, ok := stageNames[s]; ok {
		return name
	}
	return fmt.Sprintf("STAGE_%d", int(s))
}

// Side says whose board a source or destination stage addresses.
type Side int

const (
	SideOpponent Side = iota
	SideActor
)

func (s Side) String() string {
	if s == SideActor {
		return "ACTOR"
	}
	return "OPPONENT"
}

// PathStep is one entry in a kind's stage path.
type PathStep struct {
	Stage Stage
	Side  Side
}

func steps(stage Stage, side Side, more ...Stage) []PathStep {
	out := []PathStep{{stage, side}}
	for _, s := range more {
		out = append(out, PathStep{s, side})
	}
	return out
}

func join(parts ...[]PathStep) []PathStep {
	var out []PathStep
	for _, p := range parts {
		out = append(out, p...)
	}
	return out
}

var (
	handCard   = steps(StageChooseHandCard, SideActor)
	opponent   = steps(StageChooseOpponent, SideOpponent)
	sourceOpp  = steps(StageChooseSourceColour, SideOpponent, StageChooseSourceSet, StageChooseSourceCard)
	sourceSelf = steps(StageChooseSourceColour, SideActor, StageChooseSourceSet, StageChooseSourceCard)
	destSelf   = steps(StageChooseDestColour, SideActor, StageChooseDestSet)
	destOpp    = steps(StageChooseDestColour, SideOpponent, StageChooseDestSet)
	setOpp     = steps(StageChooseSourceColour, SideOpponent, StageChooseSourceSet)
)

// paths lists the decision stages of each kind after CHOOSE_ACTION. COMMIT
// follows the last entry.
var paths = map[ActionKind][]PathStep{
	ActionSkip:          nil,
	ActionMoveProperty:  join(sourceSelf, destSelf),
	ActionPlayMoney:     handCard,
	ActionPlayProperty:  join(handCard, destSelf),
	ActionPlayWild:      join(handCard, destSelf),
	ActionSlyDeal:       join(handCard, opponent, sourceOpp, destSelf),
	ActionForcedDeal:    join(handCard, opponent, sourceOpp, sourceSelf, destSelf, destOpp),
	ActionDebtCollector: join(handCard, opponent),
	ActionBirthday:      handCard,
	ActionDealBreaker:   join(handCard, opponent, setOpp),
	ActionRentWild:      join(handCard, destSelf, opponent),
	ActionCounter:       nil,
}

// Path returns the stage path of kind. The returned slice must not be
// modified.
func Path(kind ActionKind) []PathStep {
	if kind.IsRent() && kind != ActionRentWild {
		return join(handCard, destSelf)
	}
	return paths[kind]
}
