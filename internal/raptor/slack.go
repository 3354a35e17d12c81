package raptor

// SlackProvider supplies the minimum time, in seconds, a rider needs before
// boarding, after alighting and for changing vehicles.
type SlackProvider interface {
	BoardSlack(mode TransitMode) int
	AlightSlack(mode TransitMode) int
	TransferSlack() int
}

// DefaultSlackProvider is a SlackProvider with one default per slack kind and
// optional overrides per transit mode. Negative values are treated as zero.
type DefaultSlackProvider struct {
	transferSlack      int
	boardSlack         int
	alightSlack        int
	boardSlackForMode  map[TransitMode]int
	alightSlackForMode map[TransitMode]int
}

// NewSlackProvider creates a provider with the same board and alight slack for every mode.
func NewSlackProvider(transferSlack, boardSlack, alightSlack int) *DefaultSlackProvider {
	return &DefaultSlackProvider{
		transferSlack:      max(transferSlack, 0),
		boardSlack:         max(boardSlack, 0),
		alightSlack:        max(alightSlack, 0),
		boardSlackForMode:  map[TransitMode]int{},
		alightSlackForMode: map[TransitMode]int{},
	}
}

// WithModeSlack overrides the board and alight slack for one mode.
func (p *DefaultSlackProvider) WithModeSlack(mode TransitMode, boardSlack, alightSlack int) *DefaultSlackProvider {
	p.boardSlackForMode[mode] = max(boardSlack, 0)
	p.alightSlackForMode[mode] = max(alightSlack, 0)
	return p
}

func (p *DefaultSlackProvider) BoardSlack(mode TransitMode) int {
	if slack, ok := p.boardSlackForMode[mode]; ok {
		return slack
	}
	return p.boardSlack
}

func (p *DefaultSlackProvider) AlightSlack(mode TransitMode) int {
	if slack, ok := p.alightSlackForMode[mode]; ok {
		return slack
	}
	return p.alightSlack
}

func (p *DefaultSlackProvider) TransferSlack() int {
	return p.transferSlack
}

// searchSlack is the slack as seen by a worker running in one direction. The
// transfer slack is part of the boarding slack from round 2 on, so it is charged
// once per change of vehicle whether or not a transfer edge is walked.
type searchSlack interface {
	boardSlack(round int, pattern TripPattern) int
	alightSlack(pattern TripPattern) int
	// accessEgressWithRidesSlack separates a flex access or egress ride from the transit leg.
	accessEgressWithRidesSlack() int
}

type forwardSlack struct {
	source SlackProvider
}

func (s forwardSlack) boardSlack(round int, pattern TripPattern) int {
	slack := s.source.BoardSlack(pattern.Mode())
	if round > 1 {
		slack += s.source.TransferSlack()
	}
	return slack
}

func (s forwardSlack) alightSlack(pattern TripPattern) int {
	return s.source.AlightSlack(pattern.Mode())
}

func (s forwardSlack) accessEgressWithRidesSlack() int {
	return s.source.TransferSlack()
}

// reverseSlack swaps board and alight slack; in a reverse search a trip is
// boarded where the rider gets off.
type reverseSlack struct {
	source SlackProvider
}

func (s reverseSlack) boardSlack(round int, pattern TripPattern) int {
	slack := s.source.AlightSlack(pattern.Mode())
	if round > 1 {
		slack += s.source.TransferSlack()
	}
	return slack
}

func (s reverseSlack) alightSlack(pattern TripPattern) int {
	return s.source.BoardSlack(pattern.Mode())
}

func (s reverseSlack) accessEgressWithRidesSlack() int {
	return s.source.TransferSlack()
}
