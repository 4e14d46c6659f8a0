package engine

import "github.com/claude/liftplan/internal/models"

// AdvanceProgressionWeek checks whether every session of the current week
// is complete and, if so, moves currentWeek forward by exactly one. It
// never decrements, never skips, and silently stops at totalWeeks (that
// clamp is intentional, not an error path). Returns whether it advanced.
func AdvanceProgressionWeek(p *models.Progression) bool {
	if p.CurrentWeek >= p.TotalWeeks {
		return false
	}

	total, done := 0, 0
	for i := range p.Sessions {
		if p.Sessions[i].Week != p.CurrentWeek {
			continue
		}
		total++
		if p.Sessions[i].Completed {
			done++
		}
	}
	if total == 0 || done < total {
		return false
	}

	p.CurrentWeek++
	return true
}

// AdvanceProgramWeek applies the same rule to a program, where a "workout
// instance" is the group of exercise sessions sharing one program-global
// session number. An instance counts as complete only when every session
// in its group is complete.
func AdvanceProgramWeek(prog *models.Program) bool {
	if prog.CurrentWeek >= prog.TotalWeeks {
		return false
	}

	type instance struct {
		total int
		done  int
	}
	instances := map[int]*instance{}
	for d := range prog.Days {
		for i := range prog.Days[d].Sessions {
			sess := &prog.Days[d].Sessions[i]
			if sess.Week != prog.CurrentWeek {
				continue
			}
			inst := instances[sess.SessionNumber]
			if inst == nil {
				inst = &instance{}
				instances[sess.SessionNumber] = inst
			}
			inst.total++
			if sess.Completed {
				inst.done++
			}
		}
	}
	if len(instances) == 0 {
		return false
	}
	for _, inst := range instances {
		if inst.done < inst.total {
			return false
		}
	}

	prog.CurrentWeek++
	return true
}
