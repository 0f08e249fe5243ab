package discord

import (
	"testing"

	"github.com/bwmarrin/discordgo"
)

// TestCommandCreation verifies that commands can be created with the builder pattern
func TestCommandCreation(t *testing.T) {
	handler := func(ctx *CommandContext) error {
		return nil
	}

	cmd := NewCommand("test", "Test command", "test", handler)

	if cmd == nil {
		t.Fatal("NewCommand returned nil")
	}

	if cmd.Name != "test" {
		t.Errorf("Name = %v, want %v", cmd.Name, "test")
	}

	if cmd.Description != "Test command" {
		t.Errorf("Description = %v, want %v", cmd.Description, "Test command")
	}

	if cmd.Category != "test" {
		t.Errorf("Category = %v, want %v", cmd.Category, "test")
	}

	if cmd.Run == nil {
		t.Error("Run function is nil")
	}
}

// TestCommandWithOptions verifies the WithOptions builder method
func TestCommandWithOptions(t *testing.T) {
	handler := func(ctx *CommandContext) error {
		return nil
	}

	option := &discordgo.ApplicationCommandOption{
		Type:        discordgo.ApplicationCommandOptionString,
		Name:        "test-option",
		Description: "Test option",
		Required:    true,
	}

	cmd := NewCommand("test", "Test command", "test", handler).
		WithOptions(option)

	if len(cmd.Options) != 1 {
		t.Fatalf("Options length = %v, want %v", len(cmd.Options), 1)
	}

	if cmd.Options[0].Name != "test-option" {
		t.Errorf("Option name = %v, want %v", cmd.Options[0].Name, "test-option")
	}
}

// TestToApplicationCommand verifies conversion to Discord application command
func TestToApplicationCommand(t *testing.T) {
	handler := func(ctx *CommandContext) error {
		return nil
	}

	plain := NewCommand("ping", "Ping", "utils", handler).ToApplicationCommand()
	if plain.DefaultMemberPermissions != nil {
		t.Errorf("DefaultMemberPermissions = %v, want nil", *plain.DefaultMemberPermissions)
	}
	if plain.Contexts == nil || len(*plain.Contexts) != 1 || (*plain.Contexts)[0] != discordgo.InteractionContextGuild {
		t.Error("commands should be guild-only")
	}

	gated := NewCommand("kick", "Kick", "mod", handler).
		WithUserPermissions(discordgo.PermissionKickMembers).
		ToApplicationCommand()

	if gated.DefaultMemberPermissions == nil || *gated.DefaultMemberPermissions != discordgo.PermissionKickMembers {
		t.Errorf("DefaultMemberPermissions = %v, want %v", gated.DefaultMemberPermissions, discordgo.PermissionKickMembers)
	}
}

func TestHasPermission(t *testing.T) {
	tests := []struct {
		name     string
		granted  int64
		required int64
		want     bool
	}{
		{"exact", discordgo.PermissionKickMembers, discordgo.PermissionKickMembers, true},
		{"superset", discordgo.PermissionKickMembers | discordgo.PermissionBanMembers, discordgo.PermissionBanMembers, true},
		{"missing", discordgo.PermissionKickMembers, discordgo.PermissionBanMembers, false},
		{"partial", discordgo.PermissionKickMembers, discordgo.PermissionKickMembers | discordgo.PermissionBanMembers, false},
		{"administrator", discordgo.PermissionAdministrator, discordgo.PermissionManageGuild, true},
		{"none", 0, discordgo.PermissionManageChannels, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := HasPermission(tt.granted, tt.required); got != tt.want {
				t.Errorf("HasPermission(%d, %d) = %v, want %v", tt.granted, tt.required, got, tt.want)
			}
		})
	}
}
