package wish

// PriorityToFrontend maps HIGH/NORMAL/LOW to High/Medium/Low.
func PriorityToFrontend(p Priority) DisplayPriority {
	switch p {
	case PriorityHigh:
		return DisplayHigh
	case PriorityNormal:
		return DisplayMedium
	case PriorityLow:
		return DisplayLow
	default:
		return ""
	}
}

func PriorityToBackend(p DisplayPriority) Priority {
	switch p {
	case DisplayHigh:
		return PriorityHigh
	case DisplayMedium:
		return PriorityNormal
	case DisplayLow:
		return PriorityLow
	default:
		return ""
	}
}

func StatusToFrontend(s Status) DisplayStatus {
	switch s {
	case StatusNotStarted:
		return DisplayNotStarted
	case StatusInProgress:
		return DisplayInProgress
	case StatusCompleted:
		return DisplayCompleted
	default:
		return ""
	}
}

func StatusToBackend(s DisplayStatus) Status {
	switch s {
	case DisplayNotStarted:
		return StatusNotStarted
	case DisplayInProgress:
		return StatusInProgress
	case DisplayCompleted:
		return StatusCompleted
	default:
		return ""
	}
}
