// Package sod implementa la política de segregación de funciones para
// traslados: una función de decisión pura, dirigida por tabla, sin efectos.
// Debe consultarse antes de cada transición del flujo.
package sod

import "github.com/jhoicas/Traslados-api/internal/domain/entity"

// Roles que un actor puede tener dentro de un traslado concreto,
// derivados de su historial de pasos (TransferStep).
const (
	RoleCreator  = "creator"
	RoleChecker  = "checker"
	RoleSender   = "sender"
	RoleReceiver = "receiver"
)

// rule: un rol previo que entra en conflicto con un paso, y la bandera de
// configuración que lo permite expresamente.
type rule struct {
	conflictingRole string
	allowed         func(*entity.SODSettings) bool
}

// rules: por paso, los pares (rol previo, bandera que lo habilita).
var rules = map[string][]rule{
	entity.TransferStepCheck: {
		{RoleCreator, func(s *entity.SODSettings) bool { return s.CreatorCanCheck }},
	},
	entity.TransferStepSend: {
		{RoleCreator, func(s *entity.SODSettings) bool { return s.CreatorCanSend }},
		{RoleChecker, func(s *entity.SODSettings) bool { return s.CheckerCanSend }},
	},
	entity.TransferStepReceive: {
		{RoleCreator, func(s *entity.SODSettings) bool { return s.CreatorCanReceive }},
	},
	entity.TransferStepComplete: {
		{RoleCreator, func(s *entity.SODSettings) bool { return s.CreatorCanComplete }},
		{RoleSender, func(s *entity.SODSettings) bool { return s.SenderCanComplete }},
		{RoleReceiver, func(s *entity.SODSettings) bool { return s.ReceiverCanComplete }},
	},
}

// MayPerform decide si un actor con los roles dados dentro del traslado puede
// ejecutar el paso. Con EnforceTransferSOD apagado todo paso es permitido.
func MayPerform(step string, actorRoles []string, settings *entity.SODSettings) bool {
	if settings == nil || !settings.EnforceTransferSOD {
		return true
	}
	stepRules, ok := rules[step]
	if !ok {
		return true
	}
	for _, r := range stepRules {
		if !hasRole(actorRoles, r.conflictingRole) {
			continue
		}
		if !r.allowed(settings) {
			return false
		}
	}
	return true
}

// RolesOf deriva los roles de un actor dentro de un traslado a partir del
// historial de pasos append-only.
func RolesOf(actorID string, steps []entity.TransferStep) []string {
	var roles []string
	for _, s := range steps {
		if s.ActorID != actorID {
			continue
		}
		switch s.Step {
		case entity.TransferStepCreate:
			roles = appendRole(roles, RoleCreator)
		case entity.TransferStepCheck:
			roles = appendRole(roles, RoleChecker)
		case entity.TransferStepSend:
			roles = appendRole(roles, RoleSender)
		case entity.TransferStepReceive:
			roles = appendRole(roles, RoleReceiver)
		}
	}
	return roles
}

func hasRole(roles []string, role string) bool {
	for _, r := range roles {
		if r == role {
			return true
		}
	}
	return false
}

func appendRole(roles []string, role string) []string {
	if hasRole(roles, role) {
		return roles
	}
	return append(roles, role)
}
