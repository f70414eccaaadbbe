package export

// Shell script templates for the hook bundle. __HOST__ and __PORT__ are
// replaced with the broker address at render time; at run time the
// CHIME_HOST, CHIME_PORT, and CHIME_BIN environment variables override
// the baked-in values.

const onStopScript = `#!/bin/sh
# Claude Code Stop hook. Reads the hook payload from stdin and publishes
# a stop event so chime can announce the finished task.
#
# Requires: jq, chime (or set CHIME_BIN).

CHIME="${CHIME_BIN:-chime}"
HOST="${CHIME_HOST:-__HOST__}"
PORT="${CHIME_PORT:-__PORT__}"

INPUT=$(cat)
TIMESTAMP=$(date -u +%Y-%m-%dT%H:%M:%SZ)

printf '%s' "$INPUT" | jq -c --arg ts "$TIMESTAMP" '{
  event: "stop",
  cwd: (.cwd // ""),
  session_id: (.session_id // ""),
  timestamp: $ts
}' | "$CHIME" publish --url "tcp://$HOST:$PORT" claude-code/events/stop -
`

const onNotificationScript = `#!/bin/sh
# Claude Code Notification hook. Permission prompts are handed to
# on-permission-request.sh; everything else is published as an input
# request.
#
# Requires: jq, chime (or set CHIME_BIN).

CHIME="${CHIME_BIN:-chime}"
HOST="${CHIME_HOST:-__HOST__}"
PORT="${CHIME_PORT:-__PORT__}"

INPUT=$(cat)

case "$INPUT" in
*"needs your permission"*)
    printf '%s' "$INPUT" | "$(dirname "$0")/on-permission-request.sh"
    exit $?
    ;;
esac

TIMESTAMP=$(date -u +%Y-%m-%dT%H:%M:%SZ)

printf '%s' "$INPUT" | jq -c --arg ts "$TIMESTAMP" '{
  event: "notification",
  cwd: (.cwd // ""),
  session_id: (.session_id // ""),
  content: {
    type: "notification",
    title: .title,
    message: .message,
    question: null,
    raw: null
  },
  timestamp: $ts
}' | "$CHIME" publish --url "tcp://$HOST:$PORT" claude-code/events/notification -
`

const onPermissionRequestScript = `#!/bin/sh
# Claude Code permission hook. Publishes the tool details so chime can
# raise an approval or question notification. When the payload has no
# structured tool fields the whole input is forwarded verbatim for the
# hub to pick apart.
#
# Requires: jq, chime (or set CHIME_BIN).

CHIME="${CHIME_BIN:-chime}"
HOST="${CHIME_HOST:-__HOST__}"
PORT="${CHIME_PORT:-__PORT__}"

INPUT=$(cat)
TIMESTAMP=$(date -u +%Y-%m-%dT%H:%M:%SZ)

printf '%s' "$INPUT" | jq -c --arg ts "$TIMESTAMP" '{
  event: "permission_request",
  cwd: (.cwd // ""),
  session_id: (.session_id // ""),
  content: (if .tool_name != null then
    {tool_name: .tool_name, tool_input: (.tool_input // null), raw: null}
  else
    {tool_name: null, tool_input: null, raw: tostring}
  end),
  timestamp: $ts
}' | "$CHIME" publish --url "tcp://$HOST:$PORT" claude-code/events/permission-request -
`

const statuslineScript = `#!/bin/sh
# Claude Code statusline. Prints a short model/cost line for the
# terminal and mirrors the session counters to chime for the dashboard
# and tray tooltip. The publish runs in the background so the statusline
# stays fast even when the broker is away.
#
# Requires: jq, chime (or set CHIME_BIN).

CHIME="${CHIME_BIN:-chime}"
HOST="${CHIME_HOST:-__HOST__}"
PORT="${CHIME_PORT:-__PORT__}"

INPUT=$(cat)

SESSION_ID=$(printf '%s' "$INPUT" | jq -r '.session_id // empty')
MODEL=$(printf '%s' "$INPUT" | jq -r '.model.display_name // "Claude"')
COST=$(printf '%s' "$INPUT" | jq -r '.cost.total_cost_usd // 0 | .*100 | round | ./100')

if [ -n "$SESSION_ID" ]; then
    TIMESTAMP=$(date -u +%Y-%m-%dT%H:%M:%SZ)
    printf '%s' "$INPUT" | jq -c --arg ts "$TIMESTAMP" '{
      session_id: .session_id,
      cwd: (.workspace.current_dir // .cwd // ""),
      status: {
        state: "active",
        context_percent: (if .exceeds_200k_tokens == true then 100 else .context_percent end),
        cost_usd: .cost.total_cost_usd,
        lines_added: .cost.total_lines_added,
        lines_removed: .cost.total_lines_removed
      },
      timestamp: $ts
    }' | "$CHIME" publish --url "tcp://$HOST:$PORT" "claude-code/status/$SESSION_ID" - >/dev/null 2>&1 &
fi

printf '%s | $%s' "$MODEL" "$COST"
`

const installScript = `#!/bin/sh
# Installs the chime hook scripts into the Claude Code config directory
# and wires them into settings.json.
#
# Requires: jq.
set -e

CLAUDE_DIR="${CLAUDE_CONFIG_DIR:-$HOME/.claude}"
HOOKS_DIR="$CLAUDE_DIR/chime-hooks"
SETTINGS="$CLAUDE_DIR/settings.json"
HERE=$(dirname "$0")

mkdir -p "$HOOKS_DIR"
for script in on-stop.sh on-notification.sh on-permission-request.sh statusline.sh; do
    cp "$HERE/$script" "$HOOKS_DIR/$script"
    chmod 755 "$HOOKS_DIR/$script"
done

[ -f "$SETTINGS" ] || printf '{}\n' > "$SETTINGS"

TMP=$(mktemp)
jq --arg dir "$HOOKS_DIR" '
  .hooks.Stop = [{"hooks": [{"type": "command", "command": ($dir + "/on-stop.sh")}]}] |
  .hooks.Notification = [{"hooks": [{"type": "command", "command": ($dir + "/on-notification.sh")}]}] |
  .statusLine = {"type": "command", "command": ($dir + "/statusline.sh")}
' "$SETTINGS" > "$TMP"
mv "$TMP" "$SETTINGS"

echo "Hooks installed in $HOOKS_DIR"
echo "Events will be published to tcp://__HOST__:__PORT__"
echo "Start the hub with: chime hub start"
`

const settingsSnippet = `{
  "hooks": {
    "Stop": [
      {
        "hooks": [
          {
            "type": "command",
            "command": "~/.claude/chime-hooks/on-stop.sh"
          }
        ]
      }
    ],
    "Notification": [
      {
        "hooks": [
          {
            "type": "command",
            "command": "~/.claude/chime-hooks/on-notification.sh"
          }
        ]
      }
    ]
  },
  "statusLine": {
    "type": "command",
    "command": "~/.claude/chime-hooks/statusline.sh"
  }
}
`

const readmeText = `chime hook bundle
=================

These scripts connect Claude Code to a chime hub reachable at
tcp://__HOST__:__PORT__.

Quick start
-----------
1. Unpack this archive on the machine running Claude Code.
2. Run ./install.sh (requires jq). It copies the hook scripts into
   ~/.claude/chime-hooks and wires them into ~/.claude/settings.json.
3. Start the hub on the machine that should show notifications:
   chime hub start
4. Verify delivery: chime test

Manual setup
------------
Copy the on-*.sh and statusline.sh scripts anywhere convenient, make
them executable, and merge hooks-settings-snippet.json into
~/.claude/settings.json with the paths adjusted to where you put the
scripts.

Files
-----
on-stop.sh                   Stop hook: announces finished tasks
on-notification.sh           Notification hook: input requests; hands
                             permission prompts to the next script
on-permission-request.sh     publishes tool approval requests
statusline.sh                prints model/cost, mirrors session
                             counters to the hub
install.sh                   automated setup
hooks-settings-snippet.json  manual settings.json reference
chime-hooks.toml             machine-readable bundle manifest

Environment overrides
---------------------
CHIME_HOST / CHIME_PORT      broker address (default __HOST__:__PORT__)
CHIME_BIN                    chime binary to run (default: chime on PATH)

The scripts publish over MQTT, so the machine running Claude Code only
needs the chime binary and network access to the broker port.
`
