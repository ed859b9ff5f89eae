package emitter

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/testforge-hq/testforge/pkg/model"
)

// SeleniumEmitter generates Java + Selenium WebDriver test classes.
// Steps following the generator's UI action grammar become WebDriver
// calls; the rest stay as commented scenario steps.
type SeleniumEmitter struct{}

func (e *SeleniumEmitter) Name() string          { return "selenium" }
func (e *SeleniumEmitter) Language() string      { return "java" }
func (e *SeleniumEmitter) Framework() string     { return "selenium-junit5" }
func (e *SeleniumEmitter) FileExtension() string { return "UITest.java" }

// UI action grammar produced by the generator.
var (
	clickStep  = regexp.MustCompile(`^Click the (.+?) (button|link)$`)
	fillStep   = regexp.MustCompile(`^Fill out the (.+?) form with valid data$`)
	submitStep = regexp.MustCompile(`^Submit the (.+?) form$`)
	enterStep  = regexp.MustCompile(`^Enter valid text into the (.+?) input$`)
)

func (e *SeleniumEmitter) Emit(suite model.TestSuite) ([]byte, error) {
	var sb strings.Builder

	sb.WriteString("package com.example.tests;\n\n")
	sb.WriteString(`import org.junit.jupiter.api.AfterEach;
import org.junit.jupiter.api.BeforeEach;
import org.junit.jupiter.api.DisplayName;
import org.junit.jupiter.api.Test;
import org.openqa.selenium.By;
import org.openqa.selenium.WebDriver;
import org.openqa.selenium.chrome.ChromeDriver;

`)
	fmt.Fprintf(&sb, "// Generated from suite: %s\n", suite.Name)
	fmt.Fprintf(&sb, "public class %s {\n\n", javaClassName(suite.Name, "UITest", "GeneratedUITest"))

	sb.WriteString("    private WebDriver driver;\n\n")
	sb.WriteString("    @BeforeEach\n")
	sb.WriteString("    void setUp() {\n")
	sb.WriteString("        driver = new ChromeDriver();\n")
	if suite.Location != "" {
		fmt.Fprintf(&sb, "        driver.get(\"%s\");\n", escapeJavaString(suite.Location))
	}
	sb.WriteString("    }\n\n")
	sb.WriteString("    @AfterEach\n")
	sb.WriteString("    void tearDown() {\n")
	sb.WriteString("        if (driver != null) {\n")
	sb.WriteString("            driver.quit();\n")
	sb.WriteString("        }\n")
	sb.WriteString("    }\n\n")

	for _, tc := range suite.Cases {
		sb.WriteString(e.emitTest(tc))
		sb.WriteString("\n")
	}

	sb.WriteString("}\n")
	return []byte(sb.String()), nil
}

func (e *SeleniumEmitter) emitTest(tc model.TestCase) string {
	var sb strings.Builder

	sb.WriteString("    @Test\n")
	fmt.Fprintf(&sb, "    @DisplayName(\"%s\")\n", escapeJavaString(tc.Name))
	fmt.Fprintf(&sb, "    void %s() {\n", javaMethodName(tc.Name))

	for i, step := range tc.Steps {
		fmt.Fprintf(&sb, "        // Step %d: %s\n", i+1, step.Action)
		fmt.Fprintf(&sb, "        //   Expected: %s\n", step.Expected)
		if code := e.emitAction(step.Action); code != "" {
			sb.WriteString(code)
		}
	}

	sb.WriteString("    }\n")
	return sb.String()
}

// emitAction maps one grammar-matching action to WebDriver code.
// Unmatched actions yield nothing; the commented step remains.
func (e *SeleniumEmitter) emitAction(action string) string {
	if m := clickStep.FindStringSubmatch(action); m != nil {
		return fmt.Sprintf("        driver.findElement(%s).click();\n", locatorFor(m[1], m[2]))
	}
	if m := fillStep.FindStringSubmatch(action); m != nil {
		return fmt.Sprintf("        // Fill each field inside the form below\n        driver.findElement(%s);\n", locatorFor(m[1], "form"))
	}
	if m := submitStep.FindStringSubmatch(action); m != nil {
		return fmt.Sprintf("        driver.findElement(%s).submit();\n", locatorFor(m[1], "form"))
	}
	if m := enterStep.FindStringSubmatch(action); m != nil {
		return fmt.Sprintf("        driver.findElement(%s).sendKeys(\"sample text\");\n", locatorFor(m[1], "input"))
	}
	return ""
}

// locatorFor picks a By strategy: identifiers without spaces read like
// ids or names; anything else is located by its visible text.
func locatorFor(identifier, kind string) string {
	escaped := escapeJavaString(identifier)
	if !strings.Contains(identifier, " ") {
		return fmt.Sprintf("By.id(\"%s\")", escaped)
	}
	if kind == "link" {
		return fmt.Sprintf("By.linkText(\"%s\")", escaped)
	}
	return fmt.Sprintf("By.xpath(\"//*[normalize-space()='%s']\")", escaped)
}
