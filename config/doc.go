// Package config loads loopviz settings from YAML.
//
//	max_call_depth: 64      # 0 disables the bound
//	max_steps: 100000       # 0 disables the bound
//	log:
//	  level: info
//	  file: /tmp/loopviz.log
//	theme:
//	  accent: "#61dafb"
//	  web_api: "#ff6b6b"
//	  console: "#4caf50"
//
// LOOPVIZ_MAX_CALL_DEPTH, LOOPVIZ_MAX_STEPS, LOOPVIZ_LOG_LEVEL and
// LOOPVIZ_LOG_FILE override the file.
package config
