package generator

import (
	"fmt"
	"strings"
	"text/template"

	"github.com/dtg01100/fplaunchwrapper/internal/errors"
	"github.com/dtg01100/fplaunchwrapper/internal/naming"
)

// TemplateVersion is embedded in every generated wrapper so stale wrappers
// can be detected and refreshed.
const TemplateVersion = "1"

// TemplateData holds the substitution slots for the wrapper template.
// Every slot value is sanitized before interpolation: no double quotes,
// backslashes, dollar signs or newlines.
type TemplateData struct {
	Name    string // wrapper name (NAME=)
	ID      string // application id (ID=)
	PrefDir string // config directory (PREF_DIR=)
	BinDir  string // wrapper bin directory (SCRIPT_BIN_DIR=)
	Marker  string // recognition marker comment
	Version string // template version
}

// validateSlot rejects values that would break out of a double-quoted
// shell assignment.
func validateSlot(slot, value string) error {
	if value == "" {
		return errors.InvalidInput(fmt.Sprintf("template slot %s must not be empty", slot))
	}
	if strings.ContainsAny(value, "\"\\$\n`") {
		return errors.InvalidInput(fmt.Sprintf("template slot %s contains shell-unsafe characters", slot))
	}
	return nil
}

// RenderWrapper renders the wrapper script for an application.
func RenderWrapper(name, id, prefDir, binDir string) (string, error) {
	data := TemplateData{
		Name:    name,
		ID:      id,
		PrefDir: prefDir,
		BinDir:  binDir,
		Marker:  naming.Marker,
		Version: TemplateVersion,
	}

	for slot, value := range map[string]string{
		"NAME":           data.Name,
		"ID":             data.ID,
		"PREF_DIR":       data.PrefDir,
		"SCRIPT_BIN_DIR": data.BinDir,
	} {
		if err := validateSlot(slot, value); err != nil {
			return "", err
		}
	}

	var b strings.Builder
	if err := wrapperTemplate.Execute(&b, data); err != nil {
		return "", errors.IOFailed("render wrapper template", err)
	}
	return b.String(), nil
}

var wrapperTemplate = template.Must(template.New("wrapper").Parse(wrapperTemplateText))

// wrapperTemplateText is the versioned wrapper script. The header block
// (marker plus NAME/ID/PREF_DIR/SCRIPT_BIN_DIR assignments) is the
// recognition predicate for orphan reconciliation and cleanup and must
// stay within the first 30 lines.
const wrapperTemplateText = `#!/usr/bin/env bash
# {{.Marker}}
# Template version {{.Version}}. Do not edit; regenerated from the
# installed application set.
NAME="{{.Name}}"
ID="{{.ID}}"
PREF_DIR="{{.PrefDir}}"
SCRIPT_BIN_DIR="{{.BinDir}}"

PREF_FILE="$PREF_DIR/$NAME.pref"
ENV_FILE="$PREF_DIR/$NAME.env"
HOOK_DIR="$PREF_DIR/scripts/$NAME"
PRE_HOOK="$HOOK_DIR/pre-launch.sh"
POST_HOOK="$HOOK_DIR/post-run.sh"
HOOK_FAILURE_MODE="${FPWRAPPER_HOOK_FAILURE_MODE:-warn}"

# The env overlay loads before any dispatch so it can influence everything
# below, including interactivity detection.
if [ -f "$ENV_FILE" ]; then
    # shellcheck disable=SC1090
    . "$ENV_FILE"
fi

say() { printf '%s\n' "$*"; }
warn() { printf 'WARN: %s\n' "$*" >&2; }
err() { printf 'ERROR: %s\n' "$*" >&2; }

have_flatpak() { command -v flatpak >/dev/null 2>&1; }

# Lexical canonicalization: resolves . and .. but not symlinks, so
# symlinked home directories stay stable identity keys.
canonical() {
    case "$1" in
        /*) ;;
        *) set -- "$PWD/$1" ;;
    esac
    (cd "$(dirname -- "$1")" 2>/dev/null && printf '%s/%s\n' "$PWD" "$(basename -- "$1")") || printf '%s\n' "$1"
}

SELF="$(canonical "$SCRIPT_BIN_DIR/$NAME")"

# First PATH entry named $NAME that is not this wrapper itself.
find_system_binary() {
    local dir candidate
    local IFS=:
    for dir in $PATH; do
        [ -n "$dir" ] || continue
        candidate="$dir/$NAME"
        [ -f "$candidate" ] && [ -x "$candidate" ] || continue
        [ "$(canonical "$candidate")" = "$SELF" ] && continue
        printf '%s\n' "$candidate"
        return 0
    done
    return 1
}

is_interactive() {
    case "${FPWRAPPER_FORCE:-}" in
        interactive) return 0 ;;
        desktop|non-interactive) return 1 ;;
    esac
    [ -t 0 ] && [ -t 1 ]
}

write_pref() {
    mkdir -p "$PREF_DIR" || return 1
    printf '%s\n' "$1" > "$PREF_FILE.tmp$$" && mv "$PREF_FILE.tmp$$" "$PREF_FILE"
}

read_pref() {
    [ -f "$PREF_FILE" ] || return 1
    tr -d '[:space:]' < "$PREF_FILE"
}

# Launches under test harnesses are blocked by a single env var rather
# than any runner introspection.
safety_gate() {
    if [ "${FPWRAPPER_TEST_ENV:-false}" = "true" ]; then
        err "FPWRAPPER_TEST_ENV is set; refusing to launch $ID"
        exit 1
    fi
}

run_pre_hook() {
    [ -x "$PRE_HOOK" ] || return 0
    "$PRE_HOOK" "$@"
    local status=$?
    if [ $status -ne 0 ]; then
        case "$HOOK_FAILURE_MODE" in
            ignore) ;;
            abort)
                err "pre-launch hook failed with status $status; aborting"
                exit $status
                ;;
            *)
                warn "pre-launch hook failed with status $status"
                ;;
        esac
    fi
    return 0
}

run_post_hook() {
    # $1 = child exit code, $2 = launch source
    [ -x "$POST_HOOK" ] || return 0
    FPWRAPPER_EXIT_CODE="$1" \
    FPWRAPPER_SOURCE="$2" \
    FPWRAPPER_WRAPPER_NAME="$NAME" \
    FPWRAPPER_APP_ID="$ID" \
        "$POST_HOOK" || warn "post-run hook failed"
    return 0
}

launch_system() {
    safety_gate
    run_pre_hook "$@"
    if [ -x "$POST_HOOK" ]; then
        "$CMD_PATH" "$@"
        local rc=$?
        run_post_hook "$rc" system
        exit $rc
    fi
    exec "$CMD_PATH" "$@"
}

launch_flatpak() {
    safety_gate
    if ! have_flatpak; then
        err "flatpak is not available; cannot launch $ID"
        exit 1
    fi
    run_pre_hook "$@"
    if [ -x "$POST_HOOK" ]; then
        flatpak run "$ID" "$@"
        local rc=$?
        run_post_hook "$rc" flatpak
        exit $rc
    fi
    exec flatpak run "$ID" "$@"
}

print_help() {
    cat <<EOF
$NAME - launch wrapper for $ID

Wrapper flags (recognized only as the first argument):
  --fpwrapper-help                     show this help
  --fpwrapper-info                     show wrapper name, id and preference
  --fpwrapper-config-dir               print the per-app data directory
  --fpwrapper-sandbox-info             show flatpak sandbox info
  --fpwrapper-sandbox-yolo             grant --filesystem=host override
  --fpwrapper-sandbox-reset            reset flatpak overrides
  --fpwrapper-edit-sandbox             interactive sandbox permission menu
  --fpwrapper-run-unrestricted [...]   run without the sandbox
  --fpwrapper-set-override MODE        persist preference (system|flatpak)
  --fpwrapper-set-preference MODE      alias for --fpwrapper-set-override
  --fpwrapper-launch MODE [...]        one-shot launch override
  --fpwrapper-set-pre-script FILE      install pre-launch hook
  --fpwrapper-set-post-script FILE     install post-run hook
  --fpwrapper-remove-pre-script        remove pre-launch hook
  --fpwrapper-remove-post-script       remove post-run hook
  --fpwrapper-force-interactive        force the interactive prompt

All other arguments are passed through to the application.
EOF
}

print_info() {
    local pref
    pref="$(read_pref || printf 'none')"
    say "Name:       $NAME"
    say "App ID:     $ID"
    say "Preference: $pref"
    say "Usage:      $NAME [--fpwrapper-help] [args...]"
}

edit_sandbox_menu() {
    if ! is_interactive; then
        return 0
    fi
    if ! have_flatpak; then
        err "flatpak is not available"
        exit 1
    fi
    say "Sandbox permissions for $ID:"
    say "  1) Show current overrides"
    say "  2) Grant full filesystem access (--filesystem=host)"
    say "  3) Reset all overrides"
    say "  q) Quit"
    printf 'Choice: '
    read -r choice
    case "$choice" in
        1) flatpak override --user --show "$ID" ;;
        2) flatpak override --user "$ID" --filesystem=host ;;
        3) flatpak override --reset "$ID" ;;
        *) ;;
    esac
}

set_hook_script() {
    # $1 = hook file name, $2 = source path
    if [ -z "$2" ] || [ ! -f "$2" ]; then
        err "usage: $NAME --fpwrapper-set-${1%-*}-script <file>"
        exit 1
    fi
    mkdir -p "$HOOK_DIR" || exit 1
    cp -- "$2" "$HOOK_DIR/$1" && chmod 0755 "$HOOK_DIR/$1"
    say "Installed $1 for $NAME"
}

remove_hook_script() {
    rm -f -- "$HOOK_DIR/$1"
    say "Removed $1 for $NAME"
}

# --- argument dispatch -------------------------------------------------

case "${1:-}" in
    --fpwrapper-help)
        print_help
        exit 0
        ;;
    --fpwrapper-info)
        print_info
        exit 0
        ;;
    --fpwrapper-config-dir)
        say "$HOME/.var/app/$ID"
        exit 0
        ;;
    --fpwrapper-sandbox-info)
        if have_flatpak; then
            flatpak info "$ID"
            exit $?
        fi
        say "flatpak not available; no sandbox info for $ID"
        exit 0
        ;;
    --fpwrapper-sandbox-yolo)
        flatpak override --user "$ID" --filesystem=host
        exit $?
        ;;
    --fpwrapper-sandbox-reset)
        flatpak override --reset "$ID"
        exit $?
        ;;
    --fpwrapper-edit-sandbox)
        edit_sandbox_menu
        exit 0
        ;;
    --fpwrapper-run-unrestricted)
        shift
        safety_gate
        run_pre_hook "$@"
        exec flatpak run --no-sandbox "$ID" "$@"
        ;;
    --fpwrapper-set-override|--fpwrapper-set-preference)
        case "${2:-}" in
            system|flatpak)
                write_pref "$2" || exit 1
                say "Preference for $NAME set to $2"
                exit 0
                ;;
            *)
                err "preference must be 'system' or 'flatpak'"
                exit 1
                ;;
        esac
        ;;
    --fpwrapper-launch)
        # One-shot override; the preference file is not touched.
        MODE="${2:-}"
        shift 2 2>/dev/null || { err "usage: $NAME --fpwrapper-launch system|flatpak [args...]"; exit 1; }
        case "$MODE" in
            system)
                if CMD_PATH="$(find_system_binary)"; then
                    launch_system "$@"
                fi
                launch_flatpak "$@"
                ;;
            flatpak)
                launch_flatpak "$@"
                ;;
            *)
                err "launch mode must be 'system' or 'flatpak'"
                exit 1
                ;;
        esac
        ;;
    --fpwrapper-set-pre-script)
        set_hook_script pre-launch.sh "${2:-}"
        exit 0
        ;;
    --fpwrapper-set-post-script)
        set_hook_script post-run.sh "${2:-}"
        exit 0
        ;;
    --fpwrapper-remove-pre-script)
        remove_hook_script pre-launch.sh
        exit 0
        ;;
    --fpwrapper-remove-post-script)
        remove_hook_script post-run.sh
        exit 0
        ;;
    --fpwrapper-force-interactive)
        FPWRAPPER_FORCE=interactive
        export FPWRAPPER_FORCE
        shift
        ;;
esac

# --- launch resolution -------------------------------------------------

PREF="$(read_pref || true)"
CMD_PATH="$(find_system_binary || true)"

case "$PREF" in
    system)
        if [ -n "$CMD_PATH" ]; then
            launch_system "$@"
        fi
        # The preferred system binary vanished; fall back to the sandbox
        # and remember that.
        write_pref flatpak
        launch_flatpak "$@"
        ;;
    flatpak)
        launch_flatpak "$@"
        ;;
esac

# No preference yet: pin one. Non-interactive launches pick without
# prompting; the interactive prompt only appears when there is a real
# choice to make.
if ! is_interactive; then
    if [ -n "$CMD_PATH" ]; then
        write_pref system
        launch_system "$@"
    fi
    write_pref flatpak
    launch_flatpak "$@"
fi

if [ -z "$CMD_PATH" ]; then
    write_pref flatpak
    launch_flatpak "$@"
fi

say "Both a system and a flatpak build of $NAME are available."
say "  1) system  ($CMD_PATH)"
say "  2) flatpak ($ID)"
printf 'Launch which one (and remember)? [1/2] '
read -r choice
case "$choice" in
    1)
        write_pref system
        launch_system "$@"
        ;;
    *)
        write_pref flatpak
        launch_flatpak "$@"
        ;;
esac
`
