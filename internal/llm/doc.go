/*
Package llm dispatches rendered prompts to external text-completion
providers and maps their failures onto a small closed taxonomy.

# Architecture Overview

The package is organized in three layers:

 1. Dispatcher (dispatcher.go)
    - Resolves the automatic model selector from prompt length
    - Resolves the credential for the call (caller key or backend default)
    - Performs exactly one provider call, no retries
    - Normalizes the raw reply into an AnalysisResult

 2. Registry (registry.go)
    - Maps model ids to provider families by prefix
    - Holds the adapters compiled into this build

 3. Adapters (gemini.go, openai.go, anthropic.go)
    - One per provider family, each a single blocking Complete call
    - Credentials travel inside the per-call Request, never on shared state

Failure classification (errors.go) is textual on purpose: providers return
heterogeneous untyped error payloads, so a best-effort keyword match is the
only classification available. The marker tables are kept in one place so a
provider changing its wording requires touching one file.
*/
package llm
