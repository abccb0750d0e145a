package harness

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/aneesh-123/Socrates/internal/domain/execution"
)

const (
	// MainFilename holds either the verbatim user program or the generated
	// harness entry point.
	MainFilename = "main.cpp"
	// SolutionFilename holds the user's class fragment when a harness is used.
	SolutionFilename = "solution.hpp"
)

var entryPointPattern = regexp.MustCompile(`(?m)^\s*(?:int|auto|void)\s+main\s*\(`)

// HasEntryPoint reports whether the source defines a top-level program entry
// point of its own.
func HasEntryPoint(source string) bool {
	return entryPointPattern.MatchString(source)
}

// Generate decides between a self-contained program and a generated harness
// and returns the files to write. A nil testIndex embeds the full built-in
// suite; a non-nil one embeds exactly that case with console markers. An
// out-of-range index is an error.
func Generate(source string, testIndex *int) (execution.PreparedCode, error) {
	if HasEntryPoint(source) {
		return execution.PreparedCode{
			MainFile:    MainFilename,
			Files:       map[string]string{MainFilename: source},
			UsedHarness: false,
		}, nil
	}

	solution := strings.TrimSpace(source) + "\n"

	var main string
	if testIndex != nil {
		if *testIndex < 0 || *testIndex >= len(builtinCases) {
			return execution.PreparedCode{}, fmt.Errorf("test index %d out of range [0,%d)", *testIndex, len(builtinCases))
		}
		main = generateSingleTestMain(builtinCases[*testIndex])
	} else {
		main = generateSuiteMain(builtinCases)
	}

	return execution.PreparedCode{
		MainFile: MainFilename,
		Files: map[string]string{
			SolutionFilename: solution,
			MainFilename:     main,
		},
		UsedHarness: true,
	}, nil
}

func writePrelude(b *strings.Builder) {
	b.WriteString("#include <algorithm>\n")
	b.WriteString("#include <iostream>\n")
	b.WriteString("#include <sstream>\n")
	b.WriteString("#include <stdexcept>\n")
	b.WriteString("#include <string>\n")
	b.WriteString("#include <vector>\n")
	b.WriteString("\n")
	b.WriteString("#include \"solution.hpp\"\n")
	b.WriteString("\n")
	b.WriteString("static std::string render(const std::vector<int>& values) {\n")
	b.WriteString("    std::ostringstream out;\n")
	b.WriteString("    out << \"[\";\n")
	b.WriteString("    for (std::size_t i = 0; i < values.size(); ++i) {\n")
	b.WriteString("        if (i > 0) {\n")
	b.WriteString("            out << \",\";\n")
	b.WriteString("        }\n")
	b.WriteString("        out << values[i];\n")
	b.WriteString("    }\n")
	b.WriteString("    out << \"]\";\n")
	b.WriteString("    return out.str();\n")
	b.WriteString("}\n")
	b.WriteString("\n")
}

// generateSingleTestMain embeds exactly one case and prints console markers so
// the student's own output and the returned value can be separated downstream
// even though both go to the same stream.
func generateSingleTestMain(tc testCase) string {
	var b strings.Builder
	writePrelude(&b)

	b.WriteString("int main() {\n")
	fmt.Fprintf(&b, "    std::vector<int> nums = %s;\n", cppInitializer(tc.Nums))
	fmt.Fprintf(&b, "    int target = %d;\n", tc.Target)
	b.WriteString("    try {\n")
	b.WriteString("        Solution solution;\n")
	b.WriteString("        std::cout << \"CONSOLE_START\" << std::endl;\n")
	b.WriteString("        std::vector<int> result = solution.twoSum(nums, target);\n")
	b.WriteString("        std::cout << \"RETURN_VALUE:\" << render(result) << std::endl;\n")
	b.WriteString("        std::cout << \"CONSOLE_END\" << std::endl;\n")
	b.WriteString("    } catch (const std::exception& e) {\n")
	b.WriteString("        std::cout << \"CONSOLE_END\" << std::endl;\n")
	b.WriteString("        std::cout << \"Exception: \" << e.what() << std::endl;\n")
	b.WriteString("        return 1;\n")
	b.WriteString("    } catch (...) {\n")
	b.WriteString("        std::cout << \"CONSOLE_END\" << std::endl;\n")
	b.WriteString("        std::cout << \"Exception: unknown exception\" << std::endl;\n")
	b.WriteString("        return 1;\n")
	b.WriteString("    }\n")
	b.WriteString("    return 0;\n")
	b.WriteString("}\n")

	return b.String()
}

// generateSuiteMain embeds the full table. Each case runs inside its own
// try/catch so a failure never aborts the remaining cases; collections are
// compared order-insensitively.
func generateSuiteMain(cases []testCase) string {
	var b strings.Builder
	writePrelude(&b)

	b.WriteString("static bool sameElements(std::vector<int> a, std::vector<int> b) {\n")
	b.WriteString("    std::sort(a.begin(), a.end());\n")
	b.WriteString("    std::sort(b.begin(), b.end());\n")
	b.WriteString("    return a == b;\n")
	b.WriteString("}\n")
	b.WriteString("\n")

	b.WriteString("int main() {\n")
	b.WriteString("    int passed = 0;\n")
	fmt.Fprintf(&b, "    const int total = %d;\n", len(cases))

	for i, tc := range cases {
		number := i + 1
		label := tc.label()
		b.WriteString("    {\n")
		fmt.Fprintf(&b, "        std::vector<int> nums = %s;\n", cppInitializer(tc.Nums))
		fmt.Fprintf(&b, "        int target = %d;\n", tc.Target)
		fmt.Fprintf(&b, "        std::vector<int> expected = %s;\n", cppInitializer(tc.Expected))
		b.WriteString("        try {\n")
		b.WriteString("            Solution solution;\n")
		b.WriteString("            std::vector<int> actual = solution.twoSum(nums, target);\n")
		b.WriteString("            if (sameElements(actual, expected)) {\n")
		b.WriteString("                ++passed;\n")
		fmt.Fprintf(&b, "                std::cout << \"Test Case %d - %s: PASSED\" << std::endl;\n", number, label)
		b.WriteString("            } else {\n")
		fmt.Fprintf(&b, "                std::cout << \"Test Case %d - %s: FAILED\" << std::endl;\n", number, label)
		fmt.Fprintf(&b, "                std::cout << \"   Input: %s\" << std::endl;\n", label)
		b.WriteString("                std::cout << \"   Expected: \" << render(expected) << std::endl;\n")
		b.WriteString("                std::cout << \"   Got: \" << render(actual) << std::endl;\n")
		b.WriteString("            }\n")
		b.WriteString("        } catch (const std::exception& e) {\n")
		fmt.Fprintf(&b, "            std::cout << \"Test Case %d - %s: FAILED\" << std::endl;\n", number, label)
		fmt.Fprintf(&b, "            std::cout << \"   Input: %s\" << std::endl;\n", label)
		b.WriteString("            std::cout << \"   Exception: \" << e.what() << std::endl;\n")
		b.WriteString("        } catch (...) {\n")
		fmt.Fprintf(&b, "            std::cout << \"Test Case %d - %s: FAILED\" << std::endl;\n", number, label)
		fmt.Fprintf(&b, "            std::cout << \"   Input: %s\" << std::endl;\n", label)
		b.WriteString("            std::cout << \"   Exception: unknown exception\" << std::endl;\n")
		b.WriteString("        }\n")
		b.WriteString("    }\n")
	}

	b.WriteString("    std::cout << \"Summary: \" << passed << \"/\" << total << \" tests passed.\" << std::endl;\n")
	b.WriteString("    return passed == total ? 0 : 1;\n")
	b.WriteString("}\n")

	return b.String()
}
