package form

import "errors"

var (
	ErrUnknownSection = errors.New("unknown section")
	ErrUnknownField   = errors.New("unknown field")
	ErrBlockIndex     = errors.New("block index out of range")
	ErrSkillIndex     = errors.New("skill index out of range")
	ErrEmptySkill     = errors.New("skill is empty")
	ErrEmptyPhoto     = errors.New("photo is empty")
)
