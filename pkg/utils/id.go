package utils

import (
	"strings"

	"github.com/google/uuid"
)

// NewID 32 位无横线 uuid，对应表里的 varchar(32)
func NewID() string { return strings.ReplaceAll(uuid.NewString(), "-", "") }
