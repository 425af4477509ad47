package pipeline

import (
	"fmt"
	"strings"

	"frscan/internal/enrich"
	"frscan/internal/types"
)

const (
	summarizeFileSystem    = "You are a helpful assistant that summarizes code."
	summarizeProjectSystem = "You are a helpful assistant that summarizes codebases."
	judgeSystem            = "You are a security analyst."
)

const judgeFileInstruction = "You are a security expert reviewing source code. " +
	"For the following file, determine if it poses a real security danger based on its code, static findings, and summaries. " +
	"Respond with a JSON object containing 'danger' ('yes' or 'no') and 'reason' (a brief explanation, max 3 sentences)."

const judgeOverallInstruction = "You are a security expert reviewing multiple code files. " +
	"Based on the combined static findings and summaries, judge if the project as a whole poses a security danger. " +
	"Respond with a JSON object containing 'overall_danger' ('yes' or 'no') and 'overall_reason' (a brief explanation, max 3 sentences)."

// Summary prompts carry only filenames and code, never findings.
func fileSummaryPrompt(e types.EnrichedEntry) enrich.Prompt {
	return enrich.Prompt{
		System: summarizeFileSystem,
		User:   fmt.Sprintf("Summarize the intention and functionality of the following code file '%s' in 1-2 sentences:\n\n%s", e.Filename, e.Code),
	}
}

func projectSummaryPrompt(es []types.EnrichedEntry) enrich.Prompt {
	blocks := make([]string, len(es))
	for i, e := range es {
		blocks[i] = "File: " + e.Filename + "\n" + e.Code
	}
	return enrich.Prompt{
		System: summarizeProjectSystem,
		User:   "Given the following code files, summarize the overall project context and functionality in 2-3 sentences:\n\n" + strings.Join(blocks, "\n\n"),
	}
}

func judgeFilePrompt(e types.EnrichedEntry) enrich.Prompt {
	return enrich.Prompt{System: judgeSystem, User: judgeFileInstruction + "\n\n" + enrich.RenderEntry(e)}
}

func judgeOverallPrompt(es []types.EnrichedEntry) enrich.Prompt {
	return enrich.Prompt{System: judgeSystem, User: judgeOverallInstruction + "\n\n" + enrich.RenderEntries(es)}
}
